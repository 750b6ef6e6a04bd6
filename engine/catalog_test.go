package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if len(c.Board) != 24 {
		t.Errorf("board has %d tiles, want 24", len(c.Board))
	}
	if c.Board[0].Type != TileStart {
		t.Errorf("tile 0 is %s, want START", c.Board[0].Type)
	}
	counts := map[TileType]int{}
	for _, tile := range c.Board {
		counts[tile.Type]++
	}
	for _, typ := range []TileType{TileFate, TileChance, TileEvent} {
		if counts[typ] != 4 {
			t.Errorf("%d %s tiles, want 4", counts[typ], typ)
		}
	}
	again, _ := DefaultCatalog()
	if again != c {
		t.Error("DefaultCatalog should be decoded once")
	}
}

// TestEveryEventTileMatches verifies each EVENT tile on the default board has a narrative.
func TestEveryEventTileMatches(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	for _, tile := range c.Board {
		if tile.Type != TileEvent {
			continue
		}
		if _, ok := c.MatchEvent(tile.Name); !ok {
			t.Errorf("event tile %q has no matching event", tile.Name)
		}
	}
}

func TestMatchEventSubstring(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	ev, ok := c.MatchEvent("Lost at the East Gate of Zheng")
	if !ok || ev.Effect != EventLoseMeat {
		t.Errorf("Zheng tile matched %+v, %v", ev, ok)
	}
	ev, ok = c.MatchEvent("Audience with the Duke of Ye")
	if !ok || ev.Effect != EventGainMeat {
		t.Errorf("Duke of Ye tile matched %+v, %v", ev, ok)
	}
	if _, ok := c.MatchEvent("Quiet Village"); ok {
		t.Error("unrelated name should not match")
	}
}

func TestLoadCatalogRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": `
board:
  - {id: 0, name: Home, type: START, colour: red}
`,
		"start not first": `
board:
  - {id: 0, name: Road, type: STATE}
trials: [{id: t, question: q, options: [a, b, c, d], answer: 0}]
fates: [{id: f, title: f}]
chances: [{id: c, title: c}]
`,
		"teleport off board": `
board:
  - {id: 0, name: Home, type: START}
trials: [{id: t, question: q, options: [a, b, c, d], answer: 0}]
fates: [{id: f, title: f, effect: {teleport: 9}}]
chances: [{id: c, title: c}]
`,
		"bad answer": `
board:
  - {id: 0, name: Home, type: START}
trials: [{id: t, question: q, options: [a, b, c, d], answer: 4}]
fates: [{id: f, title: f}]
chances: [{id: c, title: c}]
`,
		"unknown special": `
board:
  - {id: 0, name: Home, type: START}
trials: [{id: t, question: q, options: [a, b, c, d], answer: 0}]
fates: [{id: f, title: f}]
chances: [{id: c, title: c, effect: {special: JUGGLE}}]
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadCatalog(strings.NewReader(doc)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestValidateWrapsSentinel(t *testing.T) {
	c := &Catalog{Board: []Tile{{ID: 0, Type: TileStart}}}
	if err := c.Validate(); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("got %v, want ErrInvalidCatalog", err)
	}
}

func TestValidateTrial(t *testing.T) {
	good := TrialCard{Question: "q", Options: [4]string{"a", "b", "c", "d"}, AnswerIndex: 3}
	if err := ValidateTrial(good); err != nil {
		t.Errorf("valid trial rejected: %v", err)
	}
	blank := good
	blank.Options[1] = " "
	if err := ValidateTrial(blank); err == nil {
		t.Error("blank option accepted")
	}
	if !good.Correct(3) || good.Correct(0) {
		t.Error("Correct disagrees with AnswerIndex")
	}
}

// TestDrawIsUniformWithReplacement verifies every trial can be drawn.
func TestDrawIsUniformWithReplacement(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	rng := NewRand(3)
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		seen[c.DrawTrial(rng).ID] = true
	}
	if len(seen) != len(c.Trials) {
		t.Errorf("drew %d distinct trials, want %d", len(seen), len(c.Trials))
	}
}
