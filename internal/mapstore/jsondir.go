package mapstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Garsondee/tilearena/internal/game"
)

// mapDocument is the on-disk form of one layer. Tile records fill Tiles with
// "g"/"s" codes; overlay records fill Markers with "m"/"i"/"y"/".".
type mapDocument struct {
	Tiles   [][]string `json:"tiles,omitempty" msgpack:"tiles,omitempty"`
	Markers [][]string `json:"markers,omitempty" msgpack:"markers,omitempty"`
}

func (doc mapDocument) record(key string) game.MapRecord {
	kind, err := kindOf(key)
	if err != nil {
		return game.MapRecord{Key: key, Err: err}
	}
	if kind == game.RecordTiles {
		g, err := tilesFromCodes(doc.Tiles)
		if err != nil {
			return game.MapRecord{Key: key, Err: decodeFailed(key, err)}
		}
		return game.MapRecord{Key: key, Tiles: g}
	}
	o, err := markersFromCodes(doc.Markers)
	if err != nil {
		return game.MapRecord{Key: key, Err: decodeFailed(key, err)}
	}
	return game.MapRecord{Key: key, Overlay: o}
}

// JSONDir stores each layer as an indented "X-Y-kind.json" document.
type JSONDir struct {
	dir   string
	mutex sync.RWMutex
}

// NewJSONDir uses dir, creating it if needed.
func NewJSONDir(dir string) (*JSONDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create map dir: %w", err)
	}
	return &JSONDir{dir: dir}, nil
}

// Records decodes every .json document in the directory, sorted by name.
func (d *JSONDir) Records() ([]game.MapRecord, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	matches, err := filepath.Glob(filepath.Join(d.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	recs := make([]game.MapRecord, 0, len(matches))
	for _, path := range matches {
		key := strings.TrimSuffix(filepath.Base(path), ".json")
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var doc mapDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			recs = append(recs, game.MapRecord{Key: key, Err: decodeFailed(key, err)})
			continue
		}
		recs = append(recs, doc.record(key))
	}
	return recs, nil
}

// SaveTiles writes g as key.json.
func (d *JSONDir) SaveTiles(key string, g *game.TileGrid) error {
	return d.write(key, mapDocument{Tiles: tileCodes(g)})
}

// SaveOverlay writes o as key.json.
func (d *JSONDir) SaveOverlay(key string, o *game.OverlayGrid) error {
	return d.write(key, mapDocument{Markers: markerCodes(o)})
}

func (d *JSONDir) write(key string, doc mapDocument) error {
	if _, err := kindOf(key); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return os.WriteFile(filepath.Join(d.dir, key+".json"), data, 0o644)
}

// Delete removes key.json.
func (d *JSONDir) Delete(key string) error {
	if _, err := kindOf(key); err != nil {
		return err
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	err := os.Remove(filepath.Join(d.dir, key+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return err
}

// Close is a no-op for JSON directories.
func (d *JSONDir) Close() error {
	return nil
}
