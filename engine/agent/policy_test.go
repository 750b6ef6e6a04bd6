package agent

import (
	"testing"

	engine "github.com/jason-s-yu/sojourn/engine"
)

func sampleTrial() *engine.TrialCard {
	return &engine.TrialCard{ID: "t", Question: "q", Options: [4]string{"a", "b", "c", "d"}, AnswerIndex: 1}
}

// TestDecideAlwaysCorrect verifies a rate of 1 always picks the answer.
func TestDecideAlwaysCorrect(t *testing.T) {
	p := Policy{CorrectRate: 1}
	rng := engine.NewRand(1)
	for i := 0; i < 200; i++ {
		d := p.Decide(engine.ModalTrial, sampleTrial(), rng)
		if d.Choice != 1 || !d.Correct {
			t.Fatalf("decision %d = %+v", i, d)
		}
	}
}

// TestDecideZeroRateIsUniform verifies a rate of 0 still covers every option,
// including the right one by luck.
func TestDecideZeroRateIsUniform(t *testing.T) {
	p := Policy{CorrectRate: 0}
	rng := engine.NewRand(2)
	seen := map[int]int{}
	for i := 0; i < 2000; i++ {
		d := p.Decide(engine.ModalTrial, sampleTrial(), rng)
		if d.Correct != (d.Choice == 1) {
			t.Fatalf("Correct disagrees with Choice: %+v", d)
		}
		seen[d.Choice]++
	}
	for c := 0; c < 4; c++ {
		if seen[c] < 300 {
			t.Errorf("option %d chosen %d times", c, seen[c])
		}
	}
}

func TestDefaultRateFavoursAnswer(t *testing.T) {
	p := DefaultPolicy()
	rng := engine.NewRand(3)
	correct := 0
	const n = 4000
	for i := 0; i < n; i++ {
		if p.Decide(engine.ModalTrial, sampleTrial(), rng).Correct {
			correct++
		}
	}
	// 0.7 + 0.3/4 = 0.775
	if rate := float64(correct) / n; rate < 0.74 || rate > 0.81 {
		t.Errorf("correct rate %.3f outside expected band", rate)
	}
}

func TestDecideNonTrial(t *testing.T) {
	d := DefaultPolicy().Decide(engine.ModalFate, nil, engine.NewRand(4))
	if d.Modal != engine.ModalFate || d.Choice != -1 {
		t.Errorf("fate decision = %+v", d)
	}
	if Decides(engine.ModalWin) || Decides(engine.ModalNone) || !Decides(engine.ModalEventDetail) {
		t.Error("Decides covers the wrong modals")
	}
}

func TestModeDelays(t *testing.T) {
	if DecisionDelayFor(engine.ModeQuick) != QuickDecisionDelay || DecisionDelayFor(engine.ModeAdvanced) != DecisionDelay {
		t.Error("decision delay mismatch")
	}
	if RollDelayFor(engine.ModeQuick) != QuickRollDelay || RollDelayFor(engine.ModeNormal) != RollDelay {
		t.Error("roll delay mismatch")
	}
	if !AutoApply(engine.ModeQuick) || AutoApply(engine.ModeNormal) || AutoApply(engine.ModeAdvanced) {
		t.Error("only quick mode applies AI decisions without confirmation")
	}
}
