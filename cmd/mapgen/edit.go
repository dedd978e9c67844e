package main

import (
	"fmt"

	"github.com/Garsondee/tilearena/internal/game"
)

// framedGrid returns a Grass grid enclosed by a one-tile Stone border.
func framedGrid(cols, rows int) (*game.TileGrid, error) {
	if cols < 3 || rows < 3 {
		return nil, fmt.Errorf("map must be at least 3x3, got %dx%d", cols, rows)
	}
	tiles := make([][]game.Tile, rows)
	for r := range tiles {
		tiles[r] = make([]game.Tile, cols)
		for c := range tiles[r] {
			if r == 0 || c == 0 || r == rows-1 || c == cols-1 {
				tiles[r][c] = game.Stone
			}
		}
	}
	return game.NewTileGrid(tiles)
}

// withTile returns a copy of g with (col,row) set to t.
func withTile(g *game.TileGrid, col, row int, t game.Tile) (*game.TileGrid, error) {
	if _, ok := g.At(col, row); !ok {
		return nil, fmt.Errorf("cell (%d,%d) outside %dx%d map", col, row, g.Cols, g.Rows)
	}
	tiles := g.Rows2D()
	tiles[row][col] = t
	return game.NewTileGrid(tiles)
}

// toggleMarker flips (col,row) between m and empty. A nil overlay starts
// empty at cols x rows.
func toggleMarker(o *game.OverlayGrid, cols, rows, col, row int, m game.Marker) (*game.OverlayGrid, error) {
	var marks [][]game.Marker
	if o != nil {
		marks = o.Rows2D()
		cols, rows = o.Cols, o.Rows
	} else {
		marks = make([][]game.Marker, rows)
		for r := range marks {
			marks[r] = make([]game.Marker, cols)
		}
	}
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return nil, fmt.Errorf("cell (%d,%d) outside %dx%d overlay", col, row, cols, rows)
	}
	if marks[row][col] == m {
		marks[row][col] = game.MarkerNone
	} else {
		marks[row][col] = m
	}
	return game.NewOverlayGrid(marks)
}

// findRecord returns the decoded record stored under key.
func findRecord(src game.MapSource, key string) (game.MapRecord, bool, error) {
	recs, err := src.Records()
	if err != nil {
		return game.MapRecord{}, false, err
	}
	for _, r := range recs {
		if r.Key == key {
			return r, true, r.Err
		}
	}
	return game.MapRecord{}, false, nil
}
