package agent

import (
	"time"

	engine "github.com/jason-s-yu/sojourn/engine"
)

// DefaultCorrectRate is the probability that an AI player picks the right
// trial answer outright.
const DefaultCorrectRate = 0.7

// Decision delays: how long an AI player "thinks" inside an open modal.
const (
	QuickDecisionDelay = 500 * time.Millisecond
	DecisionDelay      = 1500 * time.Millisecond
)

// Roll delays: how long an AI player waits before rolling on its turn.
const (
	QuickRollDelay = 800 * time.Millisecond
	RollDelay      = 2000 * time.Millisecond
)

// DecisionDelayFor returns the thinking delay for mode.
func DecisionDelayFor(mode engine.Mode) time.Duration {
	if mode == engine.ModeQuick {
		return QuickDecisionDelay
	}
	return DecisionDelay
}

// RollDelayFor returns the auto-roll delay for mode.
func RollDelayFor(mode engine.Mode) time.Duration {
	if mode == engine.ModeQuick {
		return QuickRollDelay
	}
	return RollDelay
}

// AutoApply reports whether AI decisions take effect without a human
// confirming them.
func AutoApply(mode engine.Mode) bool {
	return mode == engine.ModeQuick
}
