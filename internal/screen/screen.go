// Package screen is the ebiten front-end: it feeds keyboard state into a
// game.Sim once per frame and draws the resulting snapshot.
package screen

import (
	"fmt"
	"image/color"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/tilearena/internal/game"
)

// noticeTicks is how long a status line (e.g. "report copied") stays up.
const noticeTicks = 2 * game.TickRate

var (
	colourBackground = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	colourGrass      = color.RGBA{R: 46, G: 120, B: 52, A: 255}
	colourGrassEdge  = color.RGBA{R: 40, G: 104, B: 46, A: 255}
	colourStone      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	colourStoneEdge  = color.RGBA{R: 96, G: 96, B: 96, A: 255}
	colourItem       = color.RGBA{R: 60, G: 90, B: 230, A: 255}
	colourMonster    = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	colourBullet     = color.RGBA{R: 250, G: 230, B: 90, A: 255}
	colourDead       = color.RGBA{R: 60, G: 60, B: 60, A: 200}
	colourGameOver   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Game adapts a game.Sim to ebiten.Game.
type Game struct {
	sim    *game.Sim
	keys   *keyboard
	width  int
	height int
	face   *text.GoXFace

	notice      string
	noticeUntil int
	frames      int
}

// New wraps sim. The window shows the arena at one screen plus the event panel.
func New(sim *game.Sim) *Game {
	return &Game{
		sim:    sim,
		keys:   newKeyboard(),
		width:  game.ScreenWidth,
		height: game.ScreenHeight,
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
}

// WindowSize returns the outer size the window should open at.
func (g *Game) WindowSize() (int, int) {
	return g.width + panelWidth, g.height
}

// Update advances the simulation by one tick. Escape quits; F8 copies the
// debug report to the clipboard.
func (g *Game) Update() error {
	g.frames++
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF8) {
		g.copyReport()
	}
	g.keys.pollEbiten()
	g.sim.Step(g.keys)
	return nil
}

func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.sim.DebugReport(0)); err != nil {
		log.Printf("copy debug report: %v", err)
		g.setNotice("clipboard unavailable")
		return
	}
	g.setNotice("debug report copied")
}

func (g *Game) setNotice(msg string) {
	g.notice = msg
	g.noticeUntil = g.frames + noticeTicks
}

// Draw renders the active map, its items, every entity and the side panel.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colourBackground)
	snap := g.sim.Snapshot()

	drawTiles(screen, snap.Grid)
	for _, c := range snap.Items {
		x := float32(c.Col*game.TileSize + game.TileSize/4)
		y := float32(c.Row*game.TileSize + game.TileSize/4)
		vector.FillRect(screen, x, y, game.TileSize/2, game.TileSize/2, colourItem, false)
	}
	for _, e := range snap.Entities {
		drawEntity(screen, e)
	}

	status := fmt.Sprintf("map %v  tick %d", snap.Coord, snap.Tick)
	if snap.MissingMap {
		status += "  (unmapped)"
	}
	ebitenutil.DebugPrintAt(screen, status, 6, 4)
	if g.notice != "" && g.frames < g.noticeUntil {
		ebitenutil.DebugPrintAt(screen, g.notice, 6, g.height-18)
	}

	if snap.Phase == game.PhaseGameOver {
		g.drawGameOver(screen)
	}
	drawEventPanel(screen, g.sim.Events(), g.width, g.height)
}

func drawTiles(dst *ebiten.Image, grid *game.TileGrid) {
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			t, _ := grid.At(c, r)
			fill, edge := colourGrass, colourGrassEdge
			if t == game.Stone {
				fill, edge = colourStone, colourStoneEdge
			}
			x, y := float32(c*game.TileSize), float32(r*game.TileSize)
			vector.FillRect(dst, x, y, game.TileSize, game.TileSize, fill, false)
			vector.StrokeRect(dst, x, y, game.TileSize, game.TileSize, 1.0, edge, false)
		}
	}
}

func drawEntity(dst *ebiten.Image, e game.EntityView) {
	b := e.Box
	x, y, w, h := float32(b.X), float32(b.Y), float32(b.W), float32(b.H)
	switch e.Kind {
	case game.KindPlayer:
		fill := labelColour(e.Label)
		if !e.Alive {
			vector.FillRect(dst, x, y, w, h, colourDead, false)
			return
		}
		vector.FillRect(dst, x, y, w, h, fill, false)
		cx, cy := b.Center()
		dx, dy := e.Facing.Delta()
		vector.StrokeLine(dst, float32(cx), float32(cy),
			float32(cx+dx*b.W/2), float32(cy+dy*b.H/2), 2.0, color.White, false)
	case game.KindMonster:
		vector.FillRect(dst, x, y, w, h, colourMonster, false)
		vector.StrokeRect(dst, x, y, w, h, 1.0, color.Black, false)
	case game.KindBullet:
		vector.FillRect(dst, x, y, w, h, colourBullet, false)
	}
}

func (g *Game) drawGameOver(dst *ebiten.Image) {
	vector.FillRect(dst, 0, 0, float32(g.width), float32(g.height), color.RGBA{A: 140}, false)
	const msg = "Game Over"
	op := &text.DrawOptions{}
	op.GeoM.Scale(4, 4)
	op.GeoM.Translate(float64(g.width)/2, float64(g.height)/2)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(colourGameOver)
	text.Draw(dst, msg, g.face, op)
}

// Layout keeps a fixed logical resolution.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width + panelWidth, g.height
}
