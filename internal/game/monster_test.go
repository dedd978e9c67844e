package game

import "testing"

func testPlayers(x1, y1, x2, y2 int) []*Player {
	c := DefaultControls()
	return []*Player{
		NewPlayer(1, "P1", x1, y1, c[0]),
		NewPlayer(2, "P2", x2, y2, c[1]),
	}
}

func chebyshev(a, b Rect) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

func TestMonster_SelectTargetNearest(t *testing.T) {
	m := NewMonster(9, "M9", 0, 0)
	ps := testPlayers(100, 0, 50, 0)
	if got := m.SelectTarget(ps); got != ps[1] {
		t.Fatalf("expected nearer P2, got %s", got.Label)
	}
	ps = testPlayers(50, 0, 100, 0)
	if got := m.SelectTarget(ps); got != ps[0] {
		t.Fatalf("expected nearer P1, got %s", got.Label)
	}
}

func TestMonster_SelectTargetTieGoesToLater(t *testing.T) {
	m := NewMonster(9, "M9", 0, 0)
	ps := testPlayers(50, 0, 0, 50)
	if got := m.SelectTarget(ps); got != ps[1] {
		t.Fatalf("tie should pick P2, got %s", got.Label)
	}
}

func TestMonster_SelectTargetSkipsDead(t *testing.T) {
	m := NewMonster(9, "M9", 0, 0)
	ps := testPlayers(10, 0, 500, 0)
	ps[0].Alive = false
	if got := m.SelectTarget(ps); got != ps[1] {
		t.Fatal("dead player should not be targeted")
	}
	ps[1].Alive = false
	if got := m.SelectTarget(ps); got != nil {
		t.Fatal("no live players should give no target")
	}
	if m.Update(nil, GrassGrid(20, 15)) {
		t.Fatal("monster without a target must not move")
	}
}

func TestMonster_ClosesChebyshevDistance(t *testing.T) {
	g := GrassGrid(20, 15)
	m := NewMonster(9, "M9", 10, 10)
	target := testPlayers(100, 40, 400, 400)[0]
	start := chebyshev(m.Box, target.Box)
	for tick := 1; tick <= start; tick++ {
		if !m.Update(target, g) {
			t.Fatalf("tick %d: monster did not move", tick)
		}
		if got := chebyshev(m.Box, target.Box); got != start-tick*MonsterSpeed {
			t.Fatalf("tick %d: chebyshev %d, want %d", tick, got, start-tick*MonsterSpeed)
		}
		if tick >= 30 && m.Box.Y != 40 {
			t.Fatalf("tick %d: y should hold at 40 once aligned, got %d", tick, m.Box.Y)
		}
	}
	if m.Box.X != 100 || m.Box.Y != 40 {
		t.Fatalf("monster ended at (%d,%d)", m.Box.X, m.Box.Y)
	}
	if m.Update(target, g) {
		t.Fatal("monster on target should not move")
	}
}

func TestMonster_BlockedByStone(t *testing.T) {
	g, _ := MustASCIIMap(
		"..#..",
		"..#..",
		"..#..",
	)
	m := NewMonster(9, "M9", 40, 0)
	target := testPlayers(100, 0, 100, 0)[0]
	if m.Update(target, g) {
		t.Fatal("monster should not step into stone")
	}
	if m.Box.X != 40 || m.Box.Y != 0 {
		t.Fatalf("blocked monster moved to (%d,%d)", m.Box.X, m.Box.Y)
	}
}

func TestMonster_ContactKillsEachOverlappedPlayer(t *testing.T) {
	m := NewMonster(9, "M9", 100, 100)
	ps := testPlayers(110, 110, 300, 300)
	hit := m.Contact(ps)
	if len(hit) != 1 || hit[0] != ps[0] || ps[0].Alive || !ps[1].Alive {
		t.Fatalf("expected only P1 killed, hit=%d p1=%v p2=%v", len(hit), ps[0].Alive, ps[1].Alive)
	}

	ps = testPlayers(110, 110, 90, 90)
	if hit := m.Contact(ps); len(hit) != 2 {
		t.Fatalf("expected both overlapped players killed, got %d", len(hit))
	}
	if hit := m.Contact(ps); len(hit) != 0 {
		t.Fatal("dead players must not be killed twice")
	}
}
