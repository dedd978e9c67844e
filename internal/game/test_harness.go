package game

import (
	"fmt"
	"time"
)

// TickDuration is the real time one tick stands for at TickRate.
const TickDuration = time.Second / TickRate

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock starts a manual clock at a fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the clock's current instant.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// ParseASCIIMap builds a tile grid and overlay from text rows: '#' is Stone,
// '.' is Grass, 'M' a monster marker, 'I' an item marker and 'Y' a neutral
// marker (all on Grass). The overlay is nil when no markers are present.
func ParseASCIIMap(rows ...string) (*TileGrid, *OverlayGrid, error) {
	tiles := make([][]Tile, len(rows))
	marks := make([][]Marker, len(rows))
	anyMark := false
	for r, line := range rows {
		tiles[r] = make([]Tile, len(line))
		marks[r] = make([]Marker, len(line))
		for c, ch := range []byte(line) {
			switch ch {
			case '#':
				tiles[r][c] = Stone
			case '.':
			case 'M':
				marks[r][c] = MarkerMonster
				anyMark = true
			case 'I':
				marks[r][c] = MarkerItem
				anyMark = true
			case 'Y':
				marks[r][c] = MarkerNeutral
				anyMark = true
			default:
				return nil, nil, fmt.Errorf("row %d col %d: unknown map char %q", r, c, ch)
			}
		}
	}
	g, err := NewTileGrid(tiles)
	if err != nil {
		return nil, nil, err
	}
	if !anyMark {
		return g, nil, nil
	}
	o, err := NewOverlayGrid(marks)
	if err != nil {
		return nil, nil, err
	}
	return g, o, nil
}

// MustASCIIMap is ParseASCIIMap for fixed fixtures; it panics on bad input.
func MustASCIIMap(rows ...string) (*TileGrid, *OverlayGrid) {
	g, o, err := ParseASCIIMap(rows...)
	if err != nil {
		panic(err)
	}
	return g, o
}

// TestSim is a headless harness around Sim used by tests and the headless
// report. Ticks advance a ManualClock by TickDuration.
type TestSim struct {
	*Sim
	Input  *ScriptedInput
	Clock  *ManualClock
	SimLog *SimLog

	start    Coord
	maps     map[Coord][]string
	simOpts  []SimOption
	worldOps []WorldOption
}

// TestOption is a builder function applied to a TestSim during construction.
type TestOption func(*TestSim)

// WithMap authors the map at c from ASCII rows (see ParseASCIIMap).
func WithMap(c Coord, rows ...string) TestOption {
	return func(ts *TestSim) { ts.maps[c] = rows }
}

// WithStart sets the coordinate rounds begin on.
func WithStart(c Coord) TestOption {
	return func(ts *TestSim) { ts.start = c }
}

// WithVerbose enables per-tick movement logging.
func WithVerbose(v bool) TestOption {
	return func(ts *TestSim) { ts.SimLog = NewSimLog(v) }
}

// WithPlayersAt places the two players' spawn points.
func WithPlayersAt(x1, y1, x2, y2 int) TestOption {
	return func(ts *TestSim) { ts.simOpts = append(ts.simOpts, WithPlayerStarts(x1, y1, x2, y2)) }
}

// WithFallbackSize sets the size of the grass grid used for unauthored maps.
func WithFallbackSize(cols, rows int) TestOption {
	return func(ts *TestSim) { ts.worldOps = append(ts.worldOps, WithDefaultSize(cols, rows)) }
}

// NewTestSim builds the world from the authored ASCII maps and starts a round.
// Round IDs are sequential ("run-1", "run-2", ...) so logs are reproducible.
func NewTestSim(opts ...TestOption) *TestSim {
	ts := &TestSim{
		Input:  NewScriptedInput(),
		Clock:  NewManualClock(),
		SimLog: NewSimLog(false),
		start:  StartCoord,
		maps:   make(map[Coord][]string),
	}
	for _, o := range opts {
		o(ts)
	}
	w := NewWorld(ts.start, ts.worldOps...)
	for c, rows := range ts.maps {
		g, o := MustASCIIMap(rows...)
		w.AddTiles(c, g)
		if o != nil {
			w.AddOverlay(c, o)
		}
	}
	n := 0
	base := []SimOption{
		WithClock(ts.Clock.Now),
		WithSimLog(ts.SimLog),
		WithRunIDs(func() string { n++; return fmt.Sprintf("run-%d", n) }),
	}
	ts.Sim = NewSim(w, append(base, ts.simOpts...)...)
	return ts
}

// Player returns player i (0 or 1).
func (ts *TestSim) Player(i int) *Player {
	return ts.State().Players[i]
}

// RunTicks advances the simulation n ticks with the current input.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.tickOnce()
	}
}

// RunUntil advances up to maxTicks, stopping early once predicate returns
// true. Returns the number of ticks run when the predicate held, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 1; i <= maxTicks; i++ {
		ts.tickOnce()
		if predicate(ts) {
			return i
		}
	}
	return -1
}

func (ts *TestSim) tickOnce() {
	ts.Step(ts.Input)
	ts.Clock.Advance(TickDuration)
}
