package game

import "fmt"

// Kind tags the variant held by an Entity.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindBullet
	KindMonster
	kindCount // sentinel
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindBullet:
		return "bullet"
	case KindMonster:
		return "monster"
	default:
		return "?"
	}
}

// Entity is a tagged reference to one live actor. Exactly the field named by
// Kind is non-nil.
type Entity struct {
	Kind    Kind
	Player  *Player
	Bullet  *Bullet
	Monster *Monster
}

// boxTable is the collision-test dispatch: it returns an entity's box.
var boxTable = [kindCount]func(Entity) Rect{
	KindPlayer:  func(e Entity) Rect { return e.Player.Box },
	KindBullet:  func(e Entity) Rect { return e.Bullet.Box },
	KindMonster: func(e Entity) Rect { return e.Monster.Box },
}

// labelTable is the render-read dispatch for display labels.
var labelTable = [kindCount]func(Entity) string{
	KindPlayer:  func(e Entity) string { return e.Player.Label },
	KindBullet:  func(e Entity) string { return e.Bullet.Label },
	KindMonster: func(e Entity) string { return e.Monster.Label },
}

// aliveTable reports whether the entity is still live.
var aliveTable = [kindCount]func(Entity) bool{
	KindPlayer:  func(e Entity) bool { return e.Player.Alive },
	KindBullet:  func(e Entity) bool { return e.Bullet.Alive },
	KindMonster: func(e Entity) bool { return e.Monster.Alive },
}

// Box returns the entity's bounding box.
func (e Entity) Box() Rect { return boxTable[e.Kind](e) }

// Label returns the entity's display label.
func (e Entity) Label() string { return labelTable[e.Kind](e) }

// Alive reports whether the entity is live.
func (e Entity) Alive() bool { return aliveTable[e.Kind](e) }

// Collides reports whether two entities' boxes overlap.
func (e Entity) Collides(o Entity) bool { return e.Box().Overlaps(o.Box()) }

func (p *Player) entity() Entity  { return Entity{Kind: KindPlayer, Player: p} }
func (b *Bullet) entity() Entity  { return Entity{Kind: KindBullet, Bullet: b} }
func (m *Monster) entity() Entity { return Entity{Kind: KindMonster, Monster: m} }

// Phase is the top-level simulation mode.
type Phase uint8

const (
	PhasePlaying Phase = iota
	PhaseGameOver
)

func (p Phase) String() string {
	if p == PhaseGameOver {
		return "game_over"
	}
	return "playing"
}

// State is the live, per-round simulation state. It is owned by Sim and handed
// to each component during a tick.
type State struct {
	Tick     int
	Phase    Phase
	Players  []*Player
	Bullets  []*Bullet
	Monsters []*Monster

	nextID int
}

func (st *State) allocID() int {
	st.nextID++
	return st.nextID
}

// Entities returns every live entity: players first, then bullets, then
// monsters. Dead players are included so renderers can tell them apart.
func (st *State) Entities() []Entity {
	out := make([]Entity, 0, len(st.Players)+len(st.Bullets)+len(st.Monsters))
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, st.EntitiesOf(k)...)
	}
	return out
}

// EntitiesOf returns the live entities of one kind, in insertion order.
func (st *State) EntitiesOf(k Kind) []Entity {
	var out []Entity
	switch k {
	case KindPlayer:
		for _, p := range st.Players {
			out = append(out, p.entity())
		}
	case KindBullet:
		for _, b := range st.Bullets {
			out = append(out, b.entity())
		}
	case KindMonster:
		for _, m := range st.Monsters {
			out = append(out, m.entity())
		}
	}
	return out
}

// AlivePlayers returns the number of players still alive.
func (st *State) AlivePlayers() int {
	n := 0
	for _, p := range st.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// AddMonster places a new monster with its top-left at (x,y).
func (st *State) AddMonster(x, y int) *Monster {
	id := st.allocID()
	m := NewMonster(id, fmt.Sprintf("M%d", id), x, y)
	st.Monsters = append(st.Monsters, m)
	return m
}

// AddBullet registers a freshly fired bullet and gives it an ID.
func (st *State) AddBullet(b *Bullet) *Bullet {
	b.ID = st.allocID()
	b.Label = fmt.Sprintf("B%d", b.ID)
	st.Bullets = append(st.Bullets, b)
	return b
}

// ClearMonsters discards every monster regardless of state.
func (st *State) ClearMonsters() {
	st.Monsters = nil
}

// ClearBullets discards every bullet.
func (st *State) ClearBullets() {
	st.Bullets = nil
}

// sweep drops dead bullets and monsters, keeping order.
func (st *State) sweep() {
	bullets := st.Bullets[:0]
	for _, b := range st.Bullets {
		if b.Alive {
			bullets = append(bullets, b)
		}
	}
	st.Bullets = bullets
	monsters := st.Monsters[:0]
	for _, m := range st.Monsters {
		if m.Alive {
			monsters = append(monsters, m)
		}
	}
	st.Monsters = monsters
}
