package game

import (
	"errors"
	"fmt"
	"sort"
)

// World owns the authored map registry and the active map coordinate. The
// registry is immutable once loaded; only the active coordinate moves.
type World struct {
	maps     map[Coord]*TileGrid
	overlays map[Coord][]*OverlayGrid
	current  Coord
	start    Coord
	fallback *TileGrid
	skipped  []error
}

// WorldOption configures a World at construction.
type WorldOption func(*World)

// WithDefaultSize sets the size of the all-Grass grid used for coordinates
// with no authored map. The default is one screen of tiles.
func WithDefaultSize(cols, rows int) WorldOption {
	return func(w *World) {
		w.fallback = GrassGrid(cols, rows)
	}
}

// NewWorld creates an empty world positioned at start.
func NewWorld(start Coord, opts ...WorldOption) *World {
	w := &World{
		maps:     make(map[Coord]*TileGrid),
		overlays: make(map[Coord][]*OverlayGrid),
		current:  start,
		start:    start,
		fallback: GrassGrid(ScreenWidth/TileSize, ScreenHeight/TileSize),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// LoadWorld builds a world from every record of src. Records with a bad key,
// a decode failure or an overlay sized differently from its map are skipped
// and kept in Skipped; only a failure to read src at all is returned.
func LoadWorld(src MapSource, start Coord, opts ...WorldOption) (*World, error) {
	records, err := src.Records()
	if err != nil {
		return nil, fmt.Errorf("scan map source: %w", err)
	}
	w := NewWorld(start, opts...)
	var overlays []placedRecord
	for _, rec := range records {
		c, kind, err := decodeRecord(rec)
		if err != nil {
			w.skipped = append(w.skipped, err)
			continue
		}
		if kind == RecordTiles {
			w.AddTiles(c, rec.Tiles)
			continue
		}
		overlays = append(overlays, placedRecord{c: c, rec: rec})
	}
	// Overlays are checked once every map is known, whatever the record order.
	for _, p := range overlays {
		if err := w.fitOverlay(p.c, p.rec); err != nil {
			w.skipped = append(w.skipped, err)
			continue
		}
		w.AddOverlay(p.c, p.rec.Overlay)
	}
	return w, nil
}

type placedRecord struct {
	c   Coord
	rec MapRecord
}

func decodeRecord(rec MapRecord) (Coord, RecordKind, error) {
	if rec.Err != nil {
		var de *DataError
		if errors.As(rec.Err, &de) {
			return Coord{}, 0, rec.Err
		}
		return Coord{}, 0, &DataError{Key: rec.Key, Reason: "decode failed", Err: rec.Err}
	}
	c, kind, err := ParseMapKey(rec.Key)
	if err != nil {
		return Coord{}, 0, err
	}
	switch {
	case kind == RecordTiles && rec.Tiles == nil:
		return Coord{}, 0, &DataError{Key: rec.Key, Reason: "tile record without tiles"}
	case kind == RecordOverlay && rec.Overlay == nil:
		return Coord{}, 0, &DataError{Key: rec.Key, Reason: "overlay record without markers"}
	}
	return c, kind, nil
}

// fitOverlay rejects an overlay whose size differs from the grid played at
// c: the authored map, or the grass default when there is none.
func (w *World) fitOverlay(c Coord, rec MapRecord) error {
	g, ok := w.maps[c]
	if !ok {
		g = w.fallback
	}
	o := rec.Overlay
	if o.Cols != g.Cols || o.Rows != g.Rows {
		return &DataError{Key: rec.Key, Reason: fmt.Sprintf("overlay %dx%d does not match map %dx%d", o.Cols, o.Rows, g.Cols, g.Rows)}
	}
	return nil
}

// AddTiles registers the tile grid for c, replacing any earlier one.
func (w *World) AddTiles(c Coord, g *TileGrid) {
	w.maps[c] = g
}

// AddOverlay appends an overlay for c. Several overlays merge by union.
func (w *World) AddOverlay(c Coord, o *OverlayGrid) {
	w.overlays[c] = append(w.overlays[c], o)
}

// Skipped returns the data errors of records dropped at load time.
func (w *World) Skipped() []error {
	return w.skipped
}

// Current returns the active map coordinate.
func (w *World) Current() Coord {
	return w.current
}

// Start returns the coordinate every round begins on.
func (w *World) Start() Coord {
	return w.start
}

// Coords returns every coordinate with an authored tile grid, sorted by y
// then x.
func (w *World) Coords() []Coord {
	out := make([]Coord, 0, len(w.maps))
	for c := range w.maps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// CurrentTileGrid returns the authored grid of the active map, or a
// *MissingMapError matching ErrMissingMap.
func (w *World) CurrentTileGrid() (*TileGrid, error) {
	g, ok := w.maps[w.current]
	if !ok {
		return nil, &MissingMapError{Coord: w.current}
	}
	return g, nil
}

// ActiveGrid returns the active map's grid, substituting the all-Grass
// default when nothing was authored there.
func (w *World) ActiveGrid() *TileGrid {
	if g, err := w.CurrentTileGrid(); err == nil {
		return g
	}
	return w.fallback
}

// CurrentOverlays returns every overlay of the active map.
func (w *World) CurrentOverlays() []*OverlayGrid {
	return w.overlays[w.current]
}

// CurrentMarkers returns the union of cells marked m across the active map's
// overlays, in overlay order.
func (w *World) CurrentMarkers(m Marker) []Cell {
	var out []Cell
	for _, o := range w.CurrentOverlays() {
		out = append(out, o.Cells(m)...)
	}
	return out
}

// MoveToAdjacentMap discards every monster in st, shifts the active map one
// step in dir and spawns the new map's monsters. The target is not checked;
// the returned grid is nil when nothing was authored there.
func (w *World) MoveToAdjacentMap(dir Direction, st *State) (*TileGrid, []*OverlayGrid) {
	st.ClearMonsters()
	w.current = w.current.Step(dir)
	w.SpawnMonsters(st)
	return w.maps[w.current], w.CurrentOverlays()
}

// SpawnMonsters adds one monster to st per MarkerMonster cell of the active
// map's overlays and returns them.
func (w *World) SpawnMonsters(st *State) []*Monster {
	var spawned []*Monster
	for _, c := range w.CurrentMarkers(MarkerMonster) {
		spawned = append(spawned, st.AddMonster(c.Col*TileSize, c.Row*TileSize))
	}
	return spawned
}

// Reset moves the active map back to the start coordinate.
func (w *World) Reset() {
	w.current = w.start
}
