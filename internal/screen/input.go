package screen

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/tilearena/internal/game"
)

// keyMap translates simulation keys to ebiten keys.
var keyMap = map[game.Key]ebiten.Key{
	game.KeyArrowLeft:  ebiten.KeyArrowLeft,
	game.KeyArrowRight: ebiten.KeyArrowRight,
	game.KeyArrowUp:    ebiten.KeyArrowUp,
	game.KeyArrowDown:  ebiten.KeyArrowDown,
	game.KeyRightCtrl:  ebiten.KeyControlRight,
	game.KeyA:          ebiten.KeyA,
	game.KeyD:          ebiten.KeyD,
	game.KeyW:          ebiten.KeyW,
	game.KeyS:          ebiten.KeyS,
	game.KeyG:          ebiten.KeyG,
}

// keyboard is the game.Input read from ebiten each frame. Fire events are
// captured once per Update so every tick sees each key-down exactly once.
type keyboard struct {
	pressed func(ebiten.Key) bool
	fires   []game.Key
}

func newKeyboard() *keyboard {
	return &keyboard{pressed: ebiten.IsKeyPressed}
}

// poll records this frame's key-down edges.
func (kb *keyboard) poll(justPressed func(ebiten.Key) bool) {
	kb.fires = kb.fires[:0]
	for _, k := range game.AllKeys() {
		if ek, ok := keyMap[k]; ok && justPressed(ek) {
			kb.fires = append(kb.fires, k)
		}
	}
}

func (kb *keyboard) pollEbiten() {
	kb.poll(inpututil.IsKeyJustPressed)
}

func (kb *keyboard) IsPressed(k game.Key) bool {
	ek, ok := keyMap[k]
	return ok && kb.pressed(ek)
}

func (kb *keyboard) FireEvents() []game.Key {
	return kb.fires
}
