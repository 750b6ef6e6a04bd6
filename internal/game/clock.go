// internal/game/clock.go
package game

import "time"

// Timer is a scheduled callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Production uses the wall clock; tests drive a
// manual one.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock { return realClock{} }

// schedule runs fn after d with the game lock held. The timer is tracked so
// cancelTimers can stop it; a fire that races a cancellation is dropped by
// the epoch check.
// Assumes lock is held by caller.
func (g *Game) schedule(d time.Duration, fn func()) {
	id := g.nextTimerID
	g.nextTimerID++
	epoch := g.epoch
	g.timers[id] = g.clock.AfterFunc(d, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.epoch != epoch {
			return
		}
		if _, ok := g.timers[id]; !ok {
			return
		}
		delete(g.timers, id)
		fn()
	})
}

// cancelTimers stops every tracked timer and invalidates any fire already
// waiting on the lock.
// Assumes lock is held by caller.
func (g *Game) cancelTimers() {
	for id, t := range g.timers {
		t.Stop()
		delete(g.timers, id)
	}
	g.epoch++
	if g.quizCancel != nil {
		g.quizCancel()
		g.quizCancel = nil
	}
}

// pendingTimers reports how many tracked timers are outstanding.
// Assumes lock is held by caller.
func (g *Game) pendingTimers() int { return len(g.timers) }
