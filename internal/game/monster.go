package game

import "math"

// Monster chases the nearest live player one axis step at a time.
type Monster struct {
	ID    int
	Label string
	Box   Rect
	Alive bool
}

// NewMonster creates a live monster with its top-left at (x,y).
func NewMonster(id int, label string, x, y int) *Monster {
	return &Monster{
		ID:    id,
		Label: label,
		Box:   Rect{X: x, Y: y, W: MonsterSize, H: MonsterSize},
		Alive: true,
	}
}

// SelectTarget picks the live player whose top-left is nearest by Euclidean
// distance. On a tie the later player wins. Returns nil when nobody is alive.
func (m *Monster) SelectTarget(players []*Player) *Player {
	var best *Player
	bestDist := math.Inf(1)
	for _, p := range players {
		if !p.Alive {
			continue
		}
		d := math.Hypot(float64(m.Box.X-p.Box.X), float64(m.Box.Y-p.Box.Y))
		if best == nil || d <= bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

// Update steps MonsterSpeed toward target on each axis independently, so a
// diagonal chase closes on both axes at once. The step is dropped if the new
// box touches a blocking tile. Returns whether the monster moved.
func (m *Monster) Update(target *Player, g *TileGrid) bool {
	if target == nil {
		return false
	}
	dx := sign(target.Box.X-m.Box.X) * MonsterSpeed
	dy := sign(target.Box.Y-m.Box.Y) * MonsterSpeed
	if dx == 0 && dy == 0 {
		return false
	}
	next := m.Box.Moved(dx, dy)
	if Blocked(next, g) {
		return false
	}
	m.Box = next
	return true
}

// Contact kills every live player the monster overlaps and returns them.
func (m *Monster) Contact(players []*Player) []*Player {
	var hit []*Player
	me := m.entity()
	for _, p := range players {
		if p.Alive && me.Collides(p.entity()) {
			p.Alive = false
			hit = append(hit, p)
		}
	}
	return hit
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
