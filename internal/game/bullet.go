package game

// Bullet flies in a straight line at BulletSpeed until it hits a blocking
// tile or a monster.
type Bullet struct {
	ID    int
	Label string
	Box   Rect
	Dir   Direction
	Alive bool
}

// NewBullet creates a live bullet with its top-left at (x,y).
func NewBullet(x, y int, dir Direction) *Bullet {
	return &Bullet{
		Box:   Rect{X: x, Y: y, W: BulletWidth, H: BulletHeight},
		Dir:   dir,
		Alive: true,
	}
}

// Update advances the bullet one tick and kills it if its centre is over a
// blocking tile or off the grid. Monster hits are resolved by the tick.
func (b *Bullet) Update(g *TileGrid) {
	dx, dy := b.Dir.Delta()
	b.Box = b.Box.Moved(dx*BulletSpeed, dy*BulletSpeed)
	cx, cy := b.Box.Center()
	if PointBlocked(cx, cy, g) {
		b.Alive = false
	}
}
