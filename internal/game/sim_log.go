package game

import (
	"fmt"
	"strings"
)

// Log categories used by the simulation.
const (
	CatSpawn   = "spawn"
	CatShot    = "shot"
	CatKill    = "kill"
	CatDeath   = "death"
	CatMap     = "map"
	CatRound   = "round"
	CatData    = "data"
	CatMove    = "move"
	globalName = "--"
)

// SimLogEntry is one recorded simulation event.
type SimLogEntry struct {
	Tick     int
	Run      string  // round ID, empty before the first round starts
	Actor    string  // label e.g. "P1", "M3", "B7", or "--" for global events
	Category string  // spawn, shot, kill, death, map, round, data, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] P1   map      exit            right (6,9) → (7,9)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-8s %-15s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog collects structured events across rounds. It is unbounded and
// machine-readable; EventLog is the bounded on-screen view.
type SimLog struct {
	entries []SimLogEntry
	run     string
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick movement entries
// are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// SetRun stamps subsequent entries with a round ID.
func (sl *SimLog) SetRun(id string) {
	sl.run = id
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, actor, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Run:      sl.run,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, actor, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, actor, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// match reports whether e passes a category/key/value filter. Empty fields
// match anything; value matches as a substring.
func (e SimLogEntry) match(category, key, value string) bool {
	switch {
	case category != "" && e.Category != category:
		return false
	case key != "" && e.Key != key:
		return false
	case value != "" && !strings.Contains(e.Value, value):
		return false
	}
	return true
}

// Filter returns entries with the given category and key; "" matches any.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.match(category, key, "") {
			out = append(out, e)
		}
	}
	return out
}

// FilterActor returns the entries recorded for one label in round run, or in
// every round when run is "".
func (sl *SimLog) FilterActor(label, run string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Actor == label && (run == "" || e.Run == run) {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries with from <= Tick <= to.
func (sl *SimLog) FilterTickRange(from, to int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= from && e.Tick <= to {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory counts entries with the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.match(category, key, "") {
			n++
		}
	}
	return n
}

// LastOf returns the newest entry with the given category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].match(category, key, "") {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether any entry matches category, key and a substring
// of its value.
func (sl *SimLog) HasEntry(category, key, value string) bool {
	for _, e := range sl.entries {
		if e.match(category, key, value) {
			return true
		}
	}
	return false
}

// Format renders every entry, one per line.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the live state.
func (sl *SimLog) Summary(st *State, coord Coord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d map=%v ---\n", st.Tick, coord)
	for _, p := range st.Players {
		status := "alive"
		if !p.Alive {
			status = "dead"
		}
		fmt.Fprintf(&sb, "%s %s at (%d,%d) facing %s\n", p.Label, status, p.Box.X, p.Box.Y, p.Facing)
	}
	fmt.Fprintf(&sb, "Monsters: %d  Bullets: %d\n", len(st.Monsters), len(st.Bullets))
	fmt.Fprintf(&sb, "Kills: %d  Deaths: %d  Transitions: %d\n",
		sl.CountCategory(CatKill, "monster"), sl.CountCategory(CatDeath, "contact"), sl.CountCategory(CatMap, "exit"))
	return sb.String()
}
