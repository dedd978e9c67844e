package game

import "fmt"

// Tile identifies the surface of one map cell.
type Tile uint8

const (
	Grass     Tile = iota // Passable ground
	Stone                 // Blocks movement and bullets
	tileCount             // sentinel
)

// Blocks returns true if the tile stops players, monsters and bullets.
func (t Tile) Blocks() bool {
	return t == Stone
}

// Code returns the single-letter document code for the tile.
func (t Tile) Code() string {
	if t == Stone {
		return "s"
	}
	return "g"
}

// TileFromCode parses a document tile code. Unknown codes are an error.
func TileFromCode(code string) (Tile, error) {
	switch code {
	case "g":
		return Grass, nil
	case "s":
		return Stone, nil
	default:
		return Grass, fmt.Errorf("unknown tile code %q", code)
	}
}

// Cell addresses one tile by column and row.
type Cell struct {
	Col int
	Row int
}

// TileGrid is the immutable tile layer of one map. Tiles are stored row-major.
type TileGrid struct {
	Cols  int
	Rows  int
	tiles []Tile
}

// NewTileGrid copies rows into a new grid. All rows must have the same length.
func NewTileGrid(rows [][]Tile) (*TileGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("tile grid is empty")
	}
	cols := len(rows[0])
	g := &TileGrid{Cols: cols, Rows: len(rows), tiles: make([]Tile, 0, cols*len(rows))}
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d tiles, want %d", r, len(row), cols)
		}
		for _, t := range row {
			if t >= tileCount {
				return nil, fmt.Errorf("row %d holds invalid tile %d", r, t)
			}
		}
		g.tiles = append(g.tiles, row...)
	}
	return g, nil
}

// GrassGrid returns an all-Grass grid, used when a map coordinate has no
// authored data.
func GrassGrid(cols, rows int) *TileGrid {
	return &TileGrid{Cols: cols, Rows: rows, tiles: make([]Tile, cols*rows)}
}

// At returns the tile at (col,row). ok is false outside the grid.
func (g *TileGrid) At(col, row int) (Tile, bool) {
	if g == nil || col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return Stone, false
	}
	return g.tiles[row*g.Cols+col], true
}

// BlockedAt reports whether (col,row) stops movement. Cells outside the grid
// are blocked.
func (g *TileGrid) BlockedAt(col, row int) bool {
	t, ok := g.At(col, row)
	return !ok || t.Blocks()
}

// PixelWidth returns the grid width in pixels.
func (g *TileGrid) PixelWidth() int { return g.Cols * TileSize }

// PixelHeight returns the grid height in pixels.
func (g *TileGrid) PixelHeight() int { return g.Rows * TileSize }

// Rows2D returns a fresh copy of the tiles as a row slice.
func (g *TileGrid) Rows2D() [][]Tile {
	out := make([][]Tile, g.Rows)
	for r := range out {
		out[r] = append([]Tile(nil), g.tiles[r*g.Cols:(r+1)*g.Cols]...)
	}
	return out
}

// Marker is an optional spawn mark on an overlay cell.
type Marker uint8

const (
	MarkerNone    Marker = iota // Empty cell
	MarkerMonster               // Spawns one monster when the map becomes active
	MarkerItem                  // Item spawn point, exposed to renderers only
	MarkerNeutral               // Yellow authoring mark, no simulation effect
	markerCount                 // sentinel
)

// Code returns the single-letter document code for the marker.
func (m Marker) Code() string {
	switch m {
	case MarkerMonster:
		return "m"
	case MarkerItem:
		return "i"
	case MarkerNeutral:
		return "y"
	default:
		return "."
	}
}

// MarkerFromCode parses a document marker code. "" and "." are MarkerNone.
func MarkerFromCode(code string) (Marker, error) {
	switch code {
	case "", ".":
		return MarkerNone, nil
	case "m":
		return MarkerMonster, nil
	case "i":
		return MarkerItem, nil
	case "y":
		return MarkerNeutral, nil
	default:
		return MarkerNone, fmt.Errorf("unknown marker code %q", code)
	}
}

// OverlayGrid is one immutable spawn-marker layer aligned with a TileGrid.
type OverlayGrid struct {
	Cols    int
	Rows    int
	markers []Marker
}

// NewOverlayGrid copies rows into a new overlay. All rows must have the same length.
func NewOverlayGrid(rows [][]Marker) (*OverlayGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("overlay grid is empty")
	}
	cols := len(rows[0])
	o := &OverlayGrid{Cols: cols, Rows: len(rows), markers: make([]Marker, 0, cols*len(rows))}
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d markers, want %d", r, len(row), cols)
		}
		for _, m := range row {
			if m >= markerCount {
				return nil, fmt.Errorf("row %d holds invalid marker %d", r, m)
			}
		}
		o.markers = append(o.markers, row...)
	}
	return o, nil
}

// At returns the marker at (col,row), or MarkerNone outside the overlay.
func (o *OverlayGrid) At(col, row int) Marker {
	if o == nil || col < 0 || row < 0 || col >= o.Cols || row >= o.Rows {
		return MarkerNone
	}
	return o.markers[row*o.Cols+col]
}

// Cells lists every cell carrying m in row-major order.
func (o *OverlayGrid) Cells(m Marker) []Cell {
	var out []Cell
	for i, v := range o.markers {
		if v == m {
			out = append(out, Cell{Col: i % o.Cols, Row: i / o.Cols})
		}
	}
	return out
}

// Rows2D returns a fresh copy of the markers as a row slice.
func (o *OverlayGrid) Rows2D() [][]Marker {
	out := make([][]Marker, o.Rows)
	for r := range out {
		out[r] = append([]Marker(nil), o.markers[r*o.Cols:(r+1)*o.Cols]...)
	}
	return out
}
