package game

import (
	"errors"
	"fmt"
)

// ErrMissingMap is returned when the active coordinate has no authored grid.
var ErrMissingMap = errors.New("no map at coordinate")

// DataError describes a map record that could not be used: a key whose
// coordinate does not parse, or a payload that failed to decode. Records
// with a DataError are skipped at load time.
type DataError struct {
	Key    string
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("map data %q: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("map data %q: %s", e.Key, e.Reason)
}

func (e *DataError) Unwrap() error { return e.Err }

// MissingMapError carries the coordinate that had no grid.
type MissingMapError struct {
	Coord Coord
}

func (e *MissingMapError) Error() string {
	return fmt.Sprintf("%v %v", ErrMissingMap, e.Coord)
}

func (e *MissingMapError) Is(target error) bool { return target == ErrMissingMap }
