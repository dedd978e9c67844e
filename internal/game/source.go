package game

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordKind says which layer a map record carries.
type RecordKind uint8

const (
	RecordTiles   RecordKind = iota // "-map" records
	RecordOverlay                   // "-monster", "-item", "-overlay" records
)

// Key suffixes used by the authoring tools.
const (
	SuffixMap     = "map"
	SuffixMonster = "monster"
	SuffixItem    = "item"
	SuffixOverlay = "overlay"
)

// MapRecord is one decoded entry of map storage. Key is the storage name
// without extension, e.g. "6-9-map". Exactly one of Tiles and Overlay is set
// unless Err is non-nil, in which case the record is skipped.
type MapRecord struct {
	Key     string
	Tiles   *TileGrid
	Overlay *OverlayGrid
	Err     error
}

// MapSource enumerates authored map data. Decoding the underlying encoding
// (pixels, documents, rows) is the source's job; the world only sees grids.
type MapSource interface {
	Records() ([]MapRecord, error)
}

// MapKey builds the storage key for a coordinate and suffix.
func MapKey(c Coord, suffix string) string {
	return fmt.Sprintf("%d-%d-%s", c.X, c.Y, suffix)
}

// ParseMapKey splits "X-Y-suffix" into its coordinate and record kind. X and
// Y must be plain non-negative decimals; anything else is a *DataError.
func ParseMapKey(key string) (Coord, RecordKind, error) {
	i := strings.LastIndexByte(key, '-')
	if i < 0 {
		return Coord{}, 0, &DataError{Key: key, Reason: "missing kind suffix"}
	}
	var kind RecordKind
	switch key[i+1:] {
	case SuffixMap:
		kind = RecordTiles
	case SuffixMonster, SuffixItem, SuffixOverlay:
		kind = RecordOverlay
	default:
		return Coord{}, 0, &DataError{Key: key, Reason: fmt.Sprintf("unknown kind %q", key[i+1:])}
	}
	parts := strings.Split(key[:i], "-")
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return Coord{}, 0, &DataError{Key: key, Reason: "coordinate is not two integers"}
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return Coord{}, 0, &DataError{Key: key, Reason: "bad x", Err: err}
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return Coord{}, 0, &DataError{Key: key, Reason: "bad y", Err: err}
	}
	return Coord{X: x, Y: y}, kind, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
