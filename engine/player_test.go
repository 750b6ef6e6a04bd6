package engine

import (
	"errors"
	"testing"
)

func TestAddScoreClamps(t *testing.T) {
	p := NewPlayer("Sage 1", Confucius, false)
	p.AddScore(-3)
	if p.Score != 0 {
		t.Errorf("score = %d, want 0", p.Score)
	}
	p.AddScore(2)
	p.AddScore(-1)
	if p.Score != 1 {
		t.Errorf("score = %d, want 1", p.Score)
	}
}

// TestPauseLifecycle walks a player through one paused turn and the recovery flag.
func TestPauseLifecycle(t *testing.T) {
	p := NewPlayer("Sage 1", Zilu, false)
	if p.MustSkip() {
		t.Fatal("fresh player must not skip")
	}
	p.AddPause()
	if !p.MustSkip() || p.Pause.TurnsToSkip != 1 {
		t.Fatalf("after AddPause: %+v", p.Pause)
	}
	p.ServePause()
	if p.MustSkip() || p.Pause.Paused || !p.Pause.WasPaused {
		t.Errorf("after ServePause: %+v", p.Pause)
	}
}

func TestPausesStack(t *testing.T) {
	p := NewPlayer("Sage 1", YanHui, false)
	p.AddPause()
	p.AddPause()
	p.ServePause()
	if !p.MustSkip() || p.Pause.WasPaused {
		t.Errorf("one of two pauses served: %+v", p.Pause)
	}
	p.ServePause()
	p.ServePause()
	if p.Pause.TurnsToSkip != 0 {
		t.Errorf("TurnsToSkip went negative: %d", p.Pause.TurnsToSkip)
	}
}

func TestWinnerSeatOrder(t *testing.T) {
	players := []Player{{Score: 3}, {Score: 10}, {Score: 12}}
	if w := Winner(players, 10); w != 1 {
		t.Errorf("Winner = %d, want 1", w)
	}
	if w := Winner(players, 20); w != -1 {
		t.Errorf("Winner = %d, want -1", w)
	}
}

func TestStandingsSharedRanks(t *testing.T) {
	players := []Player{{Name: "a", Score: 2}, {Name: "b", Score: 5}, {Name: "c", Score: 2}, {Name: "d", Score: 0}}
	got := Standings(players)
	want := []struct {
		seat, rank int
	}{{1, 1}, {0, 2}, {2, 2}, {3, 4}}
	for i, w := range want {
		if got[i].Seat != w.seat || got[i].Rank != w.rank {
			t.Errorf("row %d = seat %d rank %d, want seat %d rank %d", i, got[i].Seat, got[i].Rank, w.seat, w.rank)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"quick", "normal", "advanced"} {
		m, err := ParseMode(s)
		if err != nil || string(m) != s {
			t.Errorf("ParseMode(%q) = %q, %v", s, m, err)
		}
	}
	if _, err := ParseMode("turbo"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(turbo) err = %v", err)
	}
	if !ModeAdvanced.GeneratesQuiz() || ModeNormal.GeneratesQuiz() {
		t.Error("only advanced mode generates quizzes")
	}
}

func TestCharacters(t *testing.T) {
	if len(Characters) != 4 {
		t.Fatalf("%d characters, want 4", len(Characters))
	}
	if YanHui.DisplayName() != "Yan Hui" {
		t.Errorf("DisplayName = %q", YanHui.DisplayName())
	}
	if Character("mencius").Valid() {
		t.Error("unknown character accepted")
	}
	if ModalEventDetail.String() != "EVENT_DETAIL" || ModalNone.String() != "" {
		t.Error("unexpected modal wire names")
	}
}

func TestHouseRulesNormalize(t *testing.T) {
	r := HouseRules{WinThreshold: 5}.Normalize()
	if r.WinThreshold != 5 || r.PassStartReward != 1 || r.MaxPlayers != 4 || r.MaxNameLength != 8 {
		t.Errorf("Normalize = %+v", r)
	}
}
