package game

import (
	"fmt"
	"strings"
)

// EntityView is the read-only per-entity data a renderer needs.
type EntityView struct {
	Kind   Kind
	Label  string
	Box    Rect
	Facing Direction
	Alive  bool
}

// Snapshot is what a renderer reads after each tick.
type Snapshot struct {
	Tick       int
	Run        string
	Coord      Coord
	Grid       *TileGrid
	MissingMap bool
	Items      []Cell
	Entities   []EntityView
	Phase      Phase
}

// Snapshot captures the current tick for rendering.
func (s *Sim) Snapshot() Snapshot {
	_, err := s.world.CurrentTileGrid()
	snap := Snapshot{
		Tick:       s.st.Tick,
		Run:        s.run,
		Coord:      s.world.Current(),
		Grid:       s.world.ActiveGrid(),
		MissingMap: err != nil,
		Items:      s.world.CurrentMarkers(MarkerItem),
		Phase:      s.st.Phase,
	}
	for _, e := range s.st.Entities() {
		v := EntityView{Kind: e.Kind, Label: e.Label(), Box: e.Box(), Alive: e.Alive()}
		switch e.Kind {
		case KindPlayer:
			v.Facing = e.Player.Facing
		case KindBullet:
			v.Facing = e.Bullet.Dir
		}
		snap.Entities = append(snap.Entities, v)
	}
	return snap
}

// DebugReport renders the round state and the last lastTicks of log entries
// as plain text, suitable for pasting into a bug report.
func (s *Sim) DebugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 120
	}
	toTick := s.st.Tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- arena debug report ---\n")
	fmt.Fprintf(&b, "run=%s round=%d phase=%s tick_range=[%d..%d]\n", s.run, s.rounds, s.st.Phase, fromTick, toTick)
	g, err := s.world.CurrentTileGrid()
	if err != nil {
		fmt.Fprintf(&b, "map=%v (missing, grass default)\n", s.world.Current())
	} else {
		fmt.Fprintf(&b, "map=%v size=%dx%d\n", s.world.Current(), g.Cols, g.Rows)
	}
	if skipped := s.world.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(&b, "skipped_records=%d\n", len(skipped))
	}
	out := s.Outcome()
	fmt.Fprintf(&b, "outcome=%s (%s)\n", out.Outcome, out.Description)
	b.WriteByte('\n')
	b.WriteString(s.log.Summary(s.st, s.world.Current()))
	b.WriteString("\nplayers:\n")
	for _, p := range s.st.Players {
		own := s.log.FilterActor(p.Label, s.run)
		if len(own) == 0 {
			fmt.Fprintf(&b, "  %s events=0\n", p.Label)
			continue
		}
		last := own[len(own)-1]
		fmt.Fprintf(&b, "  %s events=%d last=T%d %s/%s %s\n", p.Label, len(own), last.Tick, last.Category, last.Key, last.Value)
	}
	b.WriteString("\nevents:\n")
	for _, e := range s.log.FilterTickRange(fromTick, toTick) {
		if e.Run != s.run {
			continue
		}
		b.WriteString("  ")
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
