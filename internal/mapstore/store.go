// Package mapstore reads and writes authored arena maps. Every backend is a
// game.MapSource for the simulation and a Sink for the authoring tools.
package mapstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/Garsondee/tilearena/internal/game"
)

// Backend names accepted by Open.
const (
	KindImages   = "images"
	KindJSON     = "json"
	KindBolt     = "bolt"
	KindPostgres = "postgres"
)

// ErrNotFound is returned by Sink lookups for a key with no record.
var ErrNotFound = errors.New("map record not found")

// Sink is the authoring side of a store.
type Sink interface {
	SaveTiles(key string, g *game.TileGrid) error
	SaveOverlay(key string, o *game.OverlayGrid) error
	// Delete removes the record stored under key, or returns ErrNotFound.
	Delete(key string) error
}

// Store is a backend that can be both read and written.
type Store interface {
	game.MapSource
	Sink
	Close() error
}

// Open returns the backend named kind at location: a directory for images and
// json, a file path for bolt, a connection string for postgres.
func Open(kind, location string) (Store, error) {
	switch kind {
	case KindImages:
		return NewImageDir(location)
	case KindJSON:
		return NewJSONDir(location)
	case KindBolt:
		return OpenBolt(location)
	case KindPostgres:
		return NewPostgres(location)
	default:
		return nil, fmt.Errorf("unknown map store %q (want %s, %s, %s or %s)",
			kind, KindImages, KindJSON, KindBolt, KindPostgres)
	}
}

// OpenFromEnv resolves the backend from ARENA_STORE and its location from
// DATABASE_URL (postgres) or ARENA_MAPS, falling back to the given defaults.
func OpenFromEnv(defKind, defLocation string) (Store, error) {
	kind := os.Getenv("ARENA_STORE")
	if kind == "" {
		kind = defKind
	}
	location := os.Getenv("ARENA_MAPS")
	if kind == KindPostgres {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			location = url
		}
	}
	if location == "" {
		location = defLocation
	}
	return Open(kind, location)
}

// Multi is the union of several sources, read in order.
type Multi []game.MapSource

// Records concatenates the records of every source. The first failing source
// aborts the scan.
func (m Multi) Records() ([]game.MapRecord, error) {
	var out []game.MapRecord
	for i, src := range m {
		recs, err := src.Records()
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		out = append(out, recs...)
	}
	return out, nil
}

// Copy writes every readable record of src into dst and returns how many were
// written. Records that failed to decode are skipped and returned as errors.
func Copy(dst Sink, src game.MapSource) (int, []error, error) {
	recs, err := src.Records()
	if err != nil {
		return 0, nil, err
	}
	n := 0
	var skipped []error
	for _, r := range recs {
		switch {
		case r.Err != nil:
			skipped = append(skipped, r.Err)
			continue
		case r.Tiles != nil:
			err = dst.SaveTiles(r.Key, r.Tiles)
		case r.Overlay != nil:
			err = dst.SaveOverlay(r.Key, r.Overlay)
		default:
			continue
		}
		if err != nil {
			return n, skipped, fmt.Errorf("copy %s: %w", r.Key, err)
		}
		n++
	}
	return n, skipped, nil
}

// tileCodes and markerCodes convert grids to and from the short document
// codes shared by the json, bolt and postgres backends.
func tileCodes(g *game.TileGrid) [][]string {
	rows := g.Rows2D()
	out := make([][]string, len(rows))
	for r, row := range rows {
		out[r] = make([]string, len(row))
		for c, t := range row {
			out[r][c] = t.Code()
		}
	}
	return out
}

func tilesFromCodes(codes [][]string) (*game.TileGrid, error) {
	rows := make([][]game.Tile, len(codes))
	for r, row := range codes {
		rows[r] = make([]game.Tile, len(row))
		for c, code := range row {
			t, err := game.TileFromCode(code)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			rows[r][c] = t
		}
	}
	return game.NewTileGrid(rows)
}

func markerCodes(o *game.OverlayGrid) [][]string {
	rows := o.Rows2D()
	out := make([][]string, len(rows))
	for r, row := range rows {
		out[r] = make([]string, len(row))
		for c, m := range row {
			out[r][c] = m.Code()
		}
	}
	return out
}

func markersFromCodes(codes [][]string) (*game.OverlayGrid, error) {
	rows := make([][]game.Marker, len(codes))
	for r, row := range codes {
		rows[r] = make([]game.Marker, len(row))
		for c, code := range row {
			m, err := game.MarkerFromCode(code)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			rows[r][c] = m
		}
	}
	return game.NewOverlayGrid(rows)
}

// decodeFailed wraps a payload error as a skippable DataError.
func decodeFailed(key string, err error) error {
	return &game.DataError{Key: key, Reason: "decode failed", Err: err}
}

// kindOf reports whether key names a tile or overlay record.
func kindOf(key string) (game.RecordKind, error) {
	_, kind, err := game.ParseMapKey(key)
	return kind, err
}
