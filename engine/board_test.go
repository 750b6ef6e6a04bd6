package engine

import "testing"

func ringBoard(n int) Board {
	tiles := make([]Tile, n)
	for i := range tiles {
		tiles[i] = Tile{ID: i, Type: TileState}
	}
	tiles[0].Type = TileStart
	return Board{Tiles: tiles}
}

// TestStepPassesStart verifies only a step onto START from elsewhere counts as a pass.
func TestStepPassesStart(t *testing.T) {
	b := ringBoard(20)
	cases := []struct {
		pos    int
		next   int
		passed bool
	}{
		{0, 1, false},
		{5, 6, false},
		{19, 0, true},
	}
	for _, c := range cases {
		next, passed := b.Step(c.pos)
		if next != c.next || passed != c.passed {
			t.Errorf("Step(%d) = (%d, %v), want (%d, %v)", c.pos, next, passed, c.next, c.passed)
		}
	}
}

// TestStepLapPassesStartOnce verifies a full lap from START crosses it exactly once.
func TestStepLapPassesStartOnce(t *testing.T) {
	b := ringBoard(20)
	pos, passes := 0, 0
	for i := 0; i < b.Len(); i++ {
		var passed bool
		pos, passed = b.Step(pos)
		if passed {
			passes++
		}
	}
	if pos != 0 || passes != 1 {
		t.Errorf("lap ended at %d with %d passes, want 0 and 1", pos, passes)
	}
}

func TestWrapNegative(t *testing.T) {
	b := ringBoard(24)
	if got := b.Wrap(-1); got != 23 {
		t.Errorf("Wrap(-1) = %d, want 23", got)
	}
	if got := b.Tile(25).ID; got != 1 {
		t.Errorf("Tile(25).ID = %d, want 1", got)
	}
	if got := (Board{}).Wrap(7); got != 0 {
		t.Errorf("empty board Wrap = %d, want 0", got)
	}
}

// TestRollDiceRange verifies both dice stay within 1..6 and a seed is reproducible.
func TestRollDiceRange(t *testing.T) {
	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 500; i++ {
		d := RollDice(a)
		for _, v := range d {
			if v < 1 || v > 6 {
				t.Fatalf("die out of range: %d", v)
			}
		}
		if e := RollDice(b); e != d {
			t.Fatalf("roll %d diverged: %v vs %v", i, d, e)
		}
	}
}
