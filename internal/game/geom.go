package game

import "fmt"

// Coord addresses one map in the unbounded map-of-maps.
type Coord struct {
	X int
	Y int
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the four facings.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Delta returns the unit step for d.
func (d Direction) Delta() (int, int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	default:
		return 0, 0
	}
}

// Opposite returns the reverse facing.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	default:
		return Up
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "?"
	}
}

// Rect is an axis-aligned pixel box. X,Y is the top-left corner.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Center returns the integer centre point.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Corners returns the four inclusive corner pixels: top-left, top-right,
// bottom-left, bottom-right.
func (r Rect) Corners() [4][2]int {
	x1 := r.X + r.W - 1
	y1 := r.Y + r.H - 1
	return [4][2]int{{r.X, r.Y}, {x1, r.Y}, {r.X, y1}, {x1, y1}}
}

// Overlaps returns true if the two boxes share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Moved returns r translated by (dx,dy).
func (r Rect) Moved(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}
