package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock returns the current real time. Game-over timing reads it.
type Clock func() time.Time

// Sim runs the arena one tick at a time. It is driven from a single loop and
// is not safe for concurrent use.
type Sim struct {
	world    *World
	st       *State
	log      *SimLog
	events   *EventLog
	clock    Clock
	newRunID func() string
	controls [2]Controls
	starts   [2][2]int
	run      string

	gameOverAt time.Time
	rounds     int
}

// SimOption configures a Sim at construction.
type SimOption func(*Sim)

// WithClock replaces the wall clock used for the game-over pause.
func WithClock(c Clock) SimOption {
	return func(s *Sim) { s.clock = c }
}

// WithSimLog records events into sl instead of a fresh log.
func WithSimLog(sl *SimLog) SimOption {
	return func(s *Sim) { s.log = sl }
}

// WithControls replaces the default key bindings.
func WithControls(c [2]Controls) SimOption {
	return func(s *Sim) { s.controls = c }
}

// WithPlayerStarts sets the spawn top-left of both players.
func WithPlayerStarts(x1, y1, x2, y2 int) SimOption {
	return func(s *Sim) { s.starts = [2][2]int{{x1, y1}, {x2, y2}} }
}

// WithRunIDs replaces the round ID generator.
func WithRunIDs(fn func() string) SimOption {
	return func(s *Sim) { s.newRunID = fn }
}

// NewSim creates a simulation over w and starts the first round.
func NewSim(w *World, opts ...SimOption) *Sim {
	s := &Sim{
		world:    w,
		log:      NewSimLog(false),
		events:   NewEventLog(),
		clock:    time.Now,
		newRunID: uuid.NewString,
		controls: DefaultControls(),
		starts:   [2][2]int{{ScreenWidth / 2, ScreenHeight / 2}, {ScreenWidth/2 - 50, ScreenHeight / 2}},
	}
	for _, o := range opts {
		o(s)
	}
	for _, err := range w.Skipped() {
		s.log.Add(0, globalName, CatData, "skipped", err.Error(), 0)
	}
	s.st = &State{}
	for i := range s.controls {
		id := s.st.allocID()
		s.st.Players = append(s.st.Players,
			NewPlayer(id, fmt.Sprintf("P%d", i+1), s.starts[i][0], s.starts[i][1], s.controls[i]))
	}
	s.startRound()
	return s
}

// State exposes the live state. Callers outside the tick must treat it as
// read-only.
func (s *Sim) State() *State { return s.st }

// World returns the map registry.
func (s *Sim) World() *World { return s.world }

// Log returns the structured event log.
func (s *Sim) Log() *SimLog { return s.log }

// Events returns the bounded on-screen event log.
func (s *Sim) Events() *EventLog { return s.events }

// RunID returns the ID of the current round.
func (s *Sim) RunID() string { return s.run }

// Rounds returns how many rounds have started, including the current one.
func (s *Sim) Rounds() int { return s.rounds }

// GameOver reports whether the round has ended.
func (s *Sim) GameOver() bool { return s.st.Phase == PhaseGameOver }

// Step runs one tick. During game over it only waits for GameOverDelay to
// pass and then restarts.
func (s *Sim) Step(in Input) {
	if s.st.Phase == PhaseGameOver {
		if s.clock().Sub(s.gameOverAt) >= GameOverDelay {
			s.Restart()
		}
		return
	}
	s.st.Tick++

	// 1. FIRE: key-down edges for each live player's fire binding.
	for _, k := range in.FireEvents() {
		for _, p := range s.st.Players {
			if p.Alive && p.Controls.Fire == k {
				b := s.st.AddBullet(p.Shoot())
				s.record(p.Label, CatShot, "fire", fmt.Sprintf("%s %s", b.Label, p.Facing), 0)
			}
		}
	}

	// 2-4. UPDATE: players, then bullets, then monsters.
	for k := Kind(0); k < kindCount; k++ {
		for _, e := range s.st.EntitiesOf(k) {
			updateTable[k](s, e, in)
		}
	}

	// 5. HITS: each bullet takes out the first live monster it overlaps, in
	// monster order. A monster hit by an earlier bullet is skipped.
	s.resolveHits()
	s.st.sweep()

	// 6. END: no one left standing.
	if s.st.AlivePlayers() == 0 {
		s.st.Phase = PhaseGameOver
		s.gameOverAt = s.clock()
		s.record(globalName, CatRound, "game_over", fmt.Sprintf("map %v", s.world.Current()), float64(s.st.Tick))
	}
}

// updateTable is the per-kind tick dispatch.
var updateTable = [kindCount]func(*Sim, Entity, Input){
	KindPlayer:  (*Sim).updatePlayer,
	KindBullet:  (*Sim).updateBullet,
	KindMonster: (*Sim).updateMonster,
}

func (s *Sim) updatePlayer(e Entity, in Input) {
	p := e.Player
	if !p.Alive {
		return
	}
	res := p.ApplyInput(in, s.world.ActiveGrid())
	if res.Moved {
		s.log.AddVerbose(s.st.Tick, p.Label, CatMove, "step", fmt.Sprintf("(%d,%d) %s", p.Box.X, p.Box.Y, p.Facing), 0)
	}
	if res.Exited {
		s.transition(p, res.Exit)
	}
}

// transition moves the world through the edge p crossed and brings every
// player along, landing them together just inside the opposite edge.
func (s *Sim) transition(p *Player, exit Direction) {
	from := s.world.Current()
	s.st.ClearBullets()
	s.world.MoveToAdjacentMap(exit, s.st)
	p.EnterThrough(exit)
	for _, other := range s.st.Players {
		other.Box.X, other.Box.Y = p.Box.X, p.Box.Y
	}
	s.record(p.Label, CatMap, "exit", fmt.Sprintf("%s %v → %v", exit, from, s.world.Current()), 0)
	if _, err := s.world.CurrentTileGrid(); err != nil {
		s.record(globalName, CatMap, "missing", err.Error(), 0)
	}
	s.logSpawns()
}

func (s *Sim) updateBullet(e Entity, _ Input) {
	b := e.Bullet
	if !b.Alive {
		return
	}
	b.Update(s.world.ActiveGrid())
	if !b.Alive {
		s.log.AddVerbose(s.st.Tick, b.Label, CatShot, "blocked", fmt.Sprintf("(%d,%d)", b.Box.X, b.Box.Y), 0)
	}
}

func (s *Sim) updateMonster(e Entity, _ Input) {
	m := e.Monster
	if !m.Alive {
		return
	}
	target := m.SelectTarget(s.st.Players)
	if target == nil {
		return
	}
	m.Update(target, s.world.ActiveGrid())
	for _, p := range m.Contact(s.st.Players) {
		s.record(p.Label, CatDeath, "contact", fmt.Sprintf("caught by %s", m.Label), 0)
	}
}

func (s *Sim) resolveHits() {
	monsters := s.st.EntitiesOf(KindMonster)
	for _, b := range s.st.EntitiesOf(KindBullet) {
		if !b.Alive() {
			continue
		}
		for _, m := range monsters {
			if m.Alive() && b.Collides(m) {
				b.Bullet.Alive = false
				m.Monster.Alive = false
				s.record(m.Label(), CatKill, "monster", fmt.Sprintf("hit by %s", b.Label()), 0)
				break
			}
		}
	}
}

// Restart begins a new round from the initial state: players back at their
// spawn points, the start map active, no bullets, the start map's monsters.
// Entity IDs restart after the players so labels repeat round to round.
func (s *Sim) Restart() {
	for _, p := range s.st.Players {
		p.reset()
	}
	s.st.nextID = len(s.st.Players)
	s.st.ClearBullets()
	s.st.ClearMonsters()
	s.st.Tick = 0
	s.st.Phase = PhasePlaying
	s.world.Reset()
	s.startRound()
}

func (s *Sim) startRound() {
	s.rounds++
	s.run = s.newRunID()
	s.log.SetRun(s.run)
	s.record(globalName, CatRound, "start", fmt.Sprintf("round %d map %v", s.rounds, s.world.Current()), float64(s.rounds))
	if _, err := s.world.CurrentTileGrid(); err != nil {
		s.record(globalName, CatMap, "missing", err.Error(), 0)
	}
	s.world.SpawnMonsters(s.st)
	s.logSpawns()
}

func (s *Sim) logSpawns() {
	for _, m := range s.st.Monsters {
		s.record(m.Label, CatSpawn, "monster", fmt.Sprintf("(%d,%d)", m.Box.X, m.Box.Y), 0)
	}
}

func (s *Sim) record(actor, category, key, value string, num float64) {
	s.log.Add(s.st.Tick, actor, category, key, value, num)
	s.events.Add(s.st.Tick, actor, category+" "+key+": "+value)
}
