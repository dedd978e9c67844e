package game

import (
	"strings"
	"testing"
)

// field returns a 20x15 grass map with the given markers placed at
// (col,row) pairs.
func field(marks map[[2]int]byte) []string {
	rows := make([]string, ScreenHeight/TileSize)
	for r := range rows {
		line := []byte(strings.Repeat(".", ScreenWidth/TileSize))
		for c := range line {
			if ch, ok := marks[[2]int{c, r}]; ok {
				line[c] = ch
			}
		}
		rows[r] = string(line)
	}
	return rows
}

func TestSim_InitialRoundSpawnsMonsters(t *testing.T) {
	ts := NewTestSim(WithMap(StartCoord, field(map[[2]int]byte{{2, 3}: 'M', {5, 5}: 'M'})...))
	st := ts.State()
	if len(st.Players) != 2 || st.AlivePlayers() != 2 {
		t.Fatalf("expected 2 live players, got %d/%d", st.AlivePlayers(), len(st.Players))
	}
	if len(st.Monsters) != 2 {
		t.Fatalf("expected 2 monsters, got %d", len(st.Monsters))
	}
	if st.Monsters[0].Box.X != 64 || st.Monsters[0].Box.Y != 96 {
		t.Fatalf("first monster at %+v", st.Monsters[0].Box)
	}
	if ts.RunID() != "run-1" || ts.Rounds() != 1 {
		t.Fatalf("run=%s rounds=%d", ts.RunID(), ts.Rounds())
	}
	if ts.SimLog.CountCategory(CatSpawn, "monster") != 2 {
		t.Fatalf("expected 2 spawn log entries:\n%s", ts.SimLog.Format())
	}
}

func TestSim_BulletKillsMonster(t *testing.T) {
	ts := NewTestSim(WithMap(StartCoord, field(map[[2]int]byte{{15, 7}: 'M'})...))
	ts.Player(0).Facing = Right
	ts.Input.Fire(KeyRightCtrl)

	got := ts.RunUntil(func(ts *TestSim) bool { return len(ts.State().Monsters) == 0 }, 60)
	if got != 22 {
		t.Fatalf("monster died at tick %d, want 22\n%s", got, ts.SimLog.Format())
	}
	if len(ts.State().Bullets) != 0 {
		t.Fatal("bullet should be removed with the monster")
	}
	e, ok := ts.SimLog.LastOf(CatKill, "monster")
	if !ok || e.Tick != 22 {
		t.Fatalf("kill entry missing or wrong tick: %+v", e)
	}
	if ts.State().AlivePlayers() != 2 {
		t.Fatal("players should be untouched")
	}
}

func TestSim_SecondBulletPassesDeadMonster(t *testing.T) {
	// The monster steps to (479,65) before hits are resolved; both bullets
	// land on it in the same tick.
	ts := NewTestSim(WithMap(StartCoord, field(map[[2]int]byte{{15, 2}: 'M'})...))
	first := ts.State().AddBullet(NewBullet(470, 70, Right))
	second := ts.State().AddBullet(NewBullet(470, 76, Right))

	ts.RunTicks(1)
	st := ts.State()
	if len(st.Monsters) != 0 {
		t.Fatalf("monster should be dead, %d left", len(st.Monsters))
	}
	if first.Alive || !second.Alive {
		t.Fatalf("first bullet should be spent and second kept: first=%v second=%v", first.Alive, second.Alive)
	}
	if len(st.Bullets) != 1 || st.Bullets[0] != second {
		t.Fatalf("expected only %s left, got %d bullets", second.Label, len(st.Bullets))
	}
	if n := ts.SimLog.CountCategory(CatKill, "monster"); n != 1 {
		t.Fatalf("expected 1 kill entry, got %d\n%s", n, ts.SimLog.Format())
	}
	if !ts.SimLog.HasEntry(CatKill, "monster", "hit by "+first.Label) {
		t.Fatalf("kill should credit %s:\n%s", first.Label, ts.SimLog.Format())
	}
}

func TestSim_BulletOverTwoMonstersKillsFirst(t *testing.T) {
	// After their step the monsters sit at x=479 and x=511; the bullet ends
	// the tick at x=502 and overlaps both.
	ts := NewTestSim(WithMap(StartCoord, field(map[[2]int]byte{{15, 2}: 'M', {16, 2}: 'M'})...))
	front, back := ts.State().Monsters[0], ts.State().Monsters[1]
	ts.State().AddBullet(NewBullet(497, 70, Right))

	ts.RunTicks(1)
	st := ts.State()
	if n := ts.SimLog.CountCategory(CatKill, "monster"); n != 1 {
		t.Fatalf("expected 1 kill entry, got %d\n%s", n, ts.SimLog.Format())
	}
	if front.Alive || !back.Alive {
		t.Fatalf("only the earlier monster should die: %s=%v %s=%v", front.Label, front.Alive, back.Label, back.Alive)
	}
	if len(st.Monsters) != 1 || st.Monsters[0] != back {
		t.Fatalf("expected %s to survive, got %d monsters", back.Label, len(st.Monsters))
	}
	if len(st.Bullets) != 0 {
		t.Fatal("bullet should be spent on the first monster")
	}
	if e, ok := ts.SimLog.LastOf(CatKill, "monster"); !ok || e.Actor != front.Label {
		t.Fatalf("kill entry %+v, want actor %s", e, front.Label)
	}
}

func TestSim_FireOnlyForBoundKey(t *testing.T) {
	ts := NewTestSim(WithMap(StartCoord, field(nil)...))
	ts.Input.Fire(KeyG)
	ts.Input.Fire(KeyA)
	ts.RunTicks(1)
	bullets := ts.State().Bullets
	if len(bullets) != 1 {
		t.Fatalf("expected 1 bullet from P2's fire key, got %d", len(bullets))
	}
	// P2 faces down by default; the bullet has moved one step already.
	p2 := ts.Player(1)
	cx, _ := p2.Box.Center()
	if bullets[0].Box.X != cx-5 || bullets[0].Box.Y != p2.Box.Bottom()+BulletSpeed {
		t.Fatalf("bullet at %+v", bullets[0].Box)
	}
}

func TestSim_DeadPlayerCannotShootOrMove(t *testing.T) {
	ts := NewTestSim(WithMap(StartCoord, field(nil)...))
	p1 := ts.Player(0)
	p1.Alive = false
	x := p1.Box.X
	ts.Input.Press(KeyArrowLeft)
	ts.Input.Fire(KeyRightCtrl)
	ts.RunTicks(3)
	if p1.Box.X != x {
		t.Fatal("dead player moved")
	}
	if len(ts.State().Bullets) != 0 {
		t.Fatal("dead player fired")
	}
	if ts.GameOver() {
		t.Fatal("one live player left; game must go on")
	}
}

func TestSim_GameOverThenRestart(t *testing.T) {
	ts := NewTestSim(WithMap(StartCoord, field(map[[2]int]byte{{10, 7}: 'M', {8, 7}: 'M'})...))
	initial := []Rect{ts.State().Monsters[0].Box, ts.State().Monsters[1].Box}
	labels := []string{ts.State().Monsters[0].Label, ts.State().Monsters[1].Label}

	ts.RunTicks(1)
	if !ts.GameOver() {
		t.Fatalf("both players touched; expected game over\n%s", ts.SimLog.Format())
	}
	if ts.SimLog.CountCategory(CatDeath, "contact") != 2 {
		t.Fatalf("expected 2 deaths:\n%s", ts.SimLog.Format())
	}

	ts.RunTicks(100)
	if !ts.GameOver() {
		t.Fatal("restart came before the game-over delay")
	}
	tick := ts.State().Tick

	ts.Clock.Advance(GameOverDelay)
	ts.RunTicks(1)
	st := ts.State()
	if ts.GameOver() || st.Phase != PhasePlaying {
		t.Fatal("expected a fresh round after the delay")
	}
	if tick != 1 || st.Tick != 0 {
		t.Fatalf("tick frozen at %d during game over, reset to %d", tick, st.Tick)
	}
	if st.AlivePlayers() != 2 {
		t.Fatal("players should be revived")
	}
	if ts.Player(0).Box.X != ScreenWidth/2 || ts.Player(1).Box.X != ScreenWidth/2-50 {
		t.Fatalf("players not back at spawn: %+v %+v", ts.Player(0).Box, ts.Player(1).Box)
	}
	if len(st.Monsters) != 2 || st.Monsters[0].Box != initial[0] || st.Monsters[1].Box != initial[1] {
		t.Fatalf("monsters not respawned as at startup: %d", len(st.Monsters))
	}
	if st.Monsters[0].Label != labels[0] || st.Monsters[1].Label != labels[1] {
		t.Fatalf("labels %s,%s after restart, want %s,%s", st.Monsters[0].Label, st.Monsters[1].Label, labels[0], labels[1])
	}
	if ts.RunID() != "run-2" || ts.Rounds() != 2 {
		t.Fatalf("run=%s rounds=%d", ts.RunID(), ts.Rounds())
	}
}

func TestSim_TransitionMovesBothPlayers(t *testing.T) {
	east := StartCoord.Step(Right)
	ts := NewTestSim(
		WithMap(StartCoord, field(map[[2]int]byte{{0, 14}: 'M'})...),
		WithMap(east, field(map[[2]int]byte{{15, 2}: 'M'})...),
	)
	old := ts.State().Monsters[0]
	ts.Input.Press(KeyArrowRight)
	ts.Input.Fire(KeyRightCtrl)

	got := ts.RunUntil(func(ts *TestSim) bool { return ts.World().Current() == east }, 200)
	if got != 89 {
		t.Fatalf("transition at tick %d, want 89", got)
	}
	p1, p2 := ts.Player(0), ts.Player(1)
	if p1.Box.X != EdgeReentry || p1.Box.Y != ScreenHeight/2 {
		t.Fatalf("P1 at (%d,%d)", p1.Box.X, p1.Box.Y)
	}
	if p2.Box.X != p1.Box.X || p2.Box.Y != p1.Box.Y {
		t.Fatalf("P2 should land with P1, got (%d,%d)", p2.Box.X, p2.Box.Y)
	}
	st := ts.State()
	if len(st.Monsters) != 1 || st.Monsters[0] == old {
		t.Fatalf("expected only the new map's monster, got %d", len(st.Monsters))
	}
	if st.Monsters[0].Box.Y > 3*TileSize {
		t.Fatalf("monster should come from the new map's overlay: %+v", st.Monsters[0].Box)
	}
	if len(st.Bullets) != 0 {
		t.Fatal("bullets must not survive a transition")
	}
	if !ts.SimLog.HasEntry(CatMap, "exit", "right") {
		t.Fatalf("missing transition log entry:\n%s", ts.SimLog.Format())
	}

	ts.Restart()
	if ts.World().Current() != StartCoord {
		t.Fatalf("restart should return to %v, got %v", StartCoord, ts.World().Current())
	}
	if len(ts.State().Monsters) != 1 || ts.State().Monsters[0].Box.Y != 14*TileSize {
		t.Fatal("restart should respawn the start map's monsters")
	}
}

func TestSim_MissingNeighbourUsesGrass(t *testing.T) {
	ts := NewTestSim(WithMap(StartCoord, field(nil)...))
	ts.Input.Press(KeyArrowLeft)
	west := StartCoord.Step(Left)
	got := ts.RunUntil(func(ts *TestSim) bool { return ts.World().Current() == west }, 200)
	if got != 97 {
		t.Fatalf("transition at tick %d, want 97", got)
	}
	if ts.Player(0).Box.X != ScreenWidth-EdgeReentry-PlayerSize {
		t.Fatalf("P1 x=%d", ts.Player(0).Box.X)
	}
	snap := ts.Snapshot()
	if !snap.MissingMap || snap.Grid == nil || snap.Coord != west {
		t.Fatalf("snapshot should show the grass fallback: %+v", snap)
	}
	if !ts.SimLog.HasEntry(CatMap, "missing", "") {
		t.Fatal("missing map should be logged")
	}
	ts.Input.ReleaseAll()
	ts.RunTicks(5)
	if ts.GameOver() {
		t.Fatal("unexpected game over on the fallback map")
	}
}

func TestSim_SnapshotListsEntities(t *testing.T) {
	ts := NewTestSim(WithMap(StartCoord, field(map[[2]int]byte{{1, 1}: 'M', {3, 3}: 'I'})...))
	ts.Input.Fire(KeyRightCtrl)
	ts.RunTicks(1)
	snap := ts.Snapshot()
	counts := map[Kind]int{}
	for _, e := range snap.Entities {
		counts[e.Kind]++
	}
	if counts[KindPlayer] != 2 || counts[KindBullet] != 1 || counts[KindMonster] != 1 {
		t.Fatalf("entity counts %v", counts)
	}
	if len(snap.Items) != 1 || snap.Items[0] != (Cell{Col: 3, Row: 3}) {
		t.Fatalf("items %v", snap.Items)
	}
	if snap.Run != "run-1" || snap.Phase != PhasePlaying || snap.MissingMap {
		t.Fatalf("snapshot header %+v", snap)
	}
}

func TestSim_DebugReportCoversRound(t *testing.T) {
	ts := NewTestSim(WithMap(StartCoord, field(map[[2]int]byte{{1, 1}: 'M'})...))
	ts.Input.Fire(KeyRightCtrl)
	ts.RunTicks(3)
	report := ts.DebugReport(60)
	for _, want := range []string{
		"run=run-1", "map=(6,9) size=20x15", "Monsters: 1", "spawn",
		"P1 events=1 last=T1 shot/fire B4", "P2 events=0",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestEventLog_RingBuffer(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < eventLogMaxEntries+5; i++ {
		el.Add(i, "P1", "x")
	}
	recent := el.Recent()
	if len(recent) != eventLogMaxEntries || el.Len() != eventLogMaxEntries {
		t.Fatalf("expected %d entries, got %d", eventLogMaxEntries, len(recent))
	}
	if recent[0].Tick != 5 || recent[len(recent)-1].Tick != eventLogMaxEntries+4 {
		t.Fatalf("wrong window: first=%d last=%d", recent[0].Tick, recent[len(recent)-1].Tick)
	}
}

func TestSim_LargeMapTransitionsAtScreenEdge(t *testing.T) {
	rows := make([]string, 32)
	for r := range rows {
		rows[r] = strings.Repeat(".", 32)
	}
	ts := NewTestSim(WithMap(StartCoord, rows...))
	ts.Input.Press(KeyArrowDown)
	south := StartCoord.Step(Down)

	got := ts.RunUntil(func(ts *TestSim) bool {
		if ts.World().Current() != south && ts.Player(0).Box.Bottom() > ScreenHeight {
			t.Fatalf("T=%d P1 left the screen at %+v", ts.State().Tick, ts.Player(0).Box)
		}
		return ts.World().Current() == south
	}, 400)
	if got != 63 {
		t.Fatalf("transition at tick %d, want 63", got)
	}
	if p1 := ts.Player(0); p1.Box.Y != EdgeReentry || p1.Box.X != ScreenWidth/2 {
		t.Fatalf("P1 at (%d,%d), want (%d,%d)", p1.Box.X, p1.Box.Y, ScreenWidth/2, EdgeReentry)
	}
}
