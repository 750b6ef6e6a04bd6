// Package agent decides what a computer-controlled seat does inside an open modal.
package agent

import (
	"math/rand/v2"

	engine "github.com/jason-s-yu/sojourn/engine"
)

// Decision is the choice an AI player made for one modal. Choice and Correct
// are only meaningful for trials.
type Decision struct {
	Modal   engine.ModalKind `json:"modal"`
	Choice  int              `json:"choice"`
	Correct bool             `json:"correct"`
}

// Policy is the AI decision rule.
type Policy struct {
	CorrectRate float64
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{CorrectRate: DefaultCorrectRate}
}

// Decide returns the AI's decision for modal. trial must be non-nil when
// modal is ModalTrial. With probability CorrectRate the right answer is
// chosen; otherwise the choice is uniform over all options and may still
// land on the right one.
func (p Policy) Decide(modal engine.ModalKind, trial *engine.TrialCard, rng *rand.Rand) Decision {
	d := Decision{Modal: modal, Choice: -1}
	if modal != engine.ModalTrial || trial == nil {
		return d
	}
	if rng.Float64() < p.CorrectRate {
		d.Choice = trial.AnswerIndex
	} else {
		d.Choice = rng.IntN(len(trial.Options))
	}
	d.Correct = trial.Correct(d.Choice)
	return d
}

// Decides reports whether the policy acts on this modal kind at all. The
// terminal WIN modal needs no decision.
func Decides(modal engine.ModalKind) bool {
	switch modal {
	case engine.ModalTrial, engine.ModalFate, engine.ModalChance, engine.ModalEventDetail:
		return true
	}
	return false
}
