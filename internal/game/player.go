package game

// Player is one of the two human-controlled actors. Players persist across
// map transitions; a dead player stays in the list with Alive=false.
type Player struct {
	ID       int
	Label    string
	Box      Rect
	Facing   Direction
	Alive    bool
	Controls Controls

	start Rect
}

// MoveResult is what ApplyInput reports back to the tick. Exited is set when
// the player's box is within EdgeMargin of a map edge; Exit names that edge.
type MoveResult struct {
	Moved  bool
	Exited bool
	Exit   Direction
}

// NewPlayer creates a live player facing down with its top-left at (x,y).
func NewPlayer(id int, label string, x, y int, c Controls) *Player {
	box := Rect{X: x, Y: y, W: PlayerSize, H: PlayerSize}
	return &Player{
		ID:       id,
		Label:    label,
		Box:      box,
		Facing:   Down,
		Alive:    true,
		Controls: c,
		start:    box,
	}
}

// ApplyInput moves the player by PlayerSpeed along every held movement key.
// Keys are resolved left, right, up, down so the facing ends on the last held
// one. The move is dropped when the new box touches a blocking tile; the
// facing still changes.
func (p *Player) ApplyInput(in KeyState, g *TileGrid) MoveResult {
	dx, dy := 0, 0
	if in.IsPressed(p.Controls.Left) {
		dx -= PlayerSpeed
		p.Facing = Left
	}
	if in.IsPressed(p.Controls.Right) {
		dx += PlayerSpeed
		p.Facing = Right
	}
	if in.IsPressed(p.Controls.Up) {
		dy -= PlayerSpeed
		p.Facing = Up
	}
	if in.IsPressed(p.Controls.Down) {
		dy += PlayerSpeed
		p.Facing = Down
	}

	var res MoveResult
	if dx != 0 || dy != 0 {
		next := p.Box.Moved(dx, dy)
		if !Blocked(next, g) {
			p.Box = next
			res.Moved = true
		}
	}
	res.Exit, res.Exited = p.edgeExit()
	return res
}

// edgeExit checks the box against the screen edges, right, left, down, up
// in that order. Maps larger than the screen are never scrolled, so the
// screen and not the grid bounds the playfield.
func (p *Player) edgeExit() (Direction, bool) {
	switch {
	case p.Box.Right() > ScreenWidth-EdgeMargin:
		return Right, true
	case p.Box.X < EdgeMargin:
		return Left, true
	case p.Box.Bottom() > ScreenHeight-EdgeMargin:
		return Down, true
	case p.Box.Y < EdgeMargin:
		return Up, true
	}
	return 0, false
}

// EnterThrough places the player just inside the screen edge opposite to
// exit. The other axis is left alone.
func (p *Player) EnterThrough(exit Direction) {
	switch exit {
	case Right:
		p.Box.X = EdgeReentry
	case Left:
		p.Box.X = ScreenWidth - EdgeReentry - p.Box.W
	case Down:
		p.Box.Y = EdgeReentry
	case Up:
		p.Box.Y = ScreenHeight - EdgeReentry - p.Box.H
	}
}

// Shoot returns a bullet leaving the player's body on the facing side. The
// caller registers it with State.AddBullet.
func (p *Player) Shoot() *Bullet {
	cx, cy := p.Box.Center()
	switch p.Facing {
	case Left:
		return NewBullet(p.Box.X, cy-2, Left)
	case Right:
		return NewBullet(p.Box.Right(), cy-2, Right)
	case Up:
		return NewBullet(cx-5, p.Box.Y, Up)
	default:
		return NewBullet(cx-5, p.Box.Bottom(), Down)
	}
}

// reset returns the player to its spawn box, alive and facing down.
func (p *Player) reset() {
	p.Box = p.start
	p.Facing = Down
	p.Alive = true
}
