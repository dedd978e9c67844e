package game

// Key is a keyboard key as seen by the simulation. Front-ends translate their
// own key codes into these.
type Key uint8

const (
	KeyNone Key = iota
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyRightCtrl
	KeyA
	KeyD
	KeyW
	KeyS
	KeyG
	keyCount // sentinel
)

// AllKeys lists every key the simulation can bind.
func AllKeys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := KeyNone + 1; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// KeyState is a snapshot of which keys are held this tick.
type KeyState interface {
	IsPressed(k Key) bool
}

// Input is what the simulation consumes each tick: held keys plus the
// key-down events seen since the previous tick.
type Input interface {
	KeyState
	FireEvents() []Key
}

// Controls binds one player's movement and fire keys.
type Controls struct {
	Left  Key
	Right Key
	Up    Key
	Down  Key
	Fire  Key
}

// DefaultControls returns the two standard bindings: arrows + right Ctrl for
// the first player, WASD + G for the second.
func DefaultControls() [2]Controls {
	return [2]Controls{
		{Left: KeyArrowLeft, Right: KeyArrowRight, Up: KeyArrowUp, Down: KeyArrowDown, Fire: KeyRightCtrl},
		{Left: KeyA, Right: KeyD, Up: KeyW, Down: KeyS, Fire: KeyG},
	}
}

// ScriptedInput is a plain in-memory Input. Held keys persist until released;
// fire events are consumed by the next FireEvents call.
type ScriptedInput struct {
	held  map[Key]bool
	fires []Key
}

// NewScriptedInput returns an input with the given keys held.
func NewScriptedInput(held ...Key) *ScriptedInput {
	in := &ScriptedInput{held: make(map[Key]bool)}
	for _, k := range held {
		in.held[k] = true
	}
	return in
}

// Press holds k until Release.
func (in *ScriptedInput) Press(k Key) { in.held[k] = true }

// Release lets go of k.
func (in *ScriptedInput) Release(k Key) { delete(in.held, k) }

// ReleaseAll lets go of every held key.
func (in *ScriptedInput) ReleaseAll() {
	for k := range in.held {
		delete(in.held, k)
	}
}

// Fire queues a key-down event for the next tick.
func (in *ScriptedInput) Fire(k Key) { in.fires = append(in.fires, k) }

func (in *ScriptedInput) IsPressed(k Key) bool { return in.held[k] }

func (in *ScriptedInput) FireEvents() []Key {
	out := in.fires
	in.fires = nil
	return out
}
