package game

const eventLogMaxEntries = 40

// EventEntry is a single line in the on-screen event panel.
type EventEntry struct {
	Tick    int
	Label   string // e.g. "P1", "M3"
	Message string
}

// EventLog is a ring buffer of recent events rendered beside the arena.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, eventLogMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(tick int, label, msg string) {
	el.entries[el.head] = EventEntry{
		Tick:    tick,
		Label:   label,
		Message: msg,
	}
	el.head = (el.head + 1) % eventLogMaxEntries
	if el.count < eventLogMaxEntries {
		el.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + eventLogMaxEntries) % eventLogMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Len returns how many entries are held.
func (el *EventLog) Len() int { return el.count }
