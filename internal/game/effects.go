// internal/game/effects.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// EffectRequest asks the presentation layer to animate a score change.
// OnComplete must be called once the animation finishes, whatever the amount;
// extra calls are ignored.
type EffectRequest struct {
	ID          int       `json:"id"`
	PlayerIndex int       `json:"playerIndex"`
	PlayerID    uuid.UUID `json:"playerId"`
	Amount      int       `json:"amount"`
	Title       string    `json:"title,omitempty"`
	OnComplete  func()    `json:"-"`
}

type pendingEffect struct {
	req   EffectRequest
	apply func()
}

// requestEffect queues a reward animation. apply runs, with the lock held,
// when the presentation layer completes it. Only one request is outstanding
// at a time; the rest wait in FIFO order.
// Assumes lock is held by caller.
func (g *Game) requestEffect(seat, amount int, title string, apply func()) {
	if g.phase == PhaseWon {
		return
	}
	g.nextEffectID++
	id := g.nextEffectID
	var once sync.Once
	req := EffectRequest{
		ID:          id,
		PlayerIndex: seat,
		PlayerID:    g.Players[seat].ID,
		Amount:      amount,
		Title:       title,
	}
	// Completion hops back through the clock so a presenter that calls
	// OnComplete from inside EffectFn does not re-enter the lock.
	req.OnComplete = func() {
		once.Do(func() {
			g.clock.AfterFunc(0, func() { g.CompleteEffect(id) })
		})
	}
	g.effects = append(g.effects, &pendingEffect{req: req, apply: apply})
	g.phase = PhaseRewarding
	if g.activeEffect == nil {
		g.dispatchEffect()
	}
}

// dispatchEffect hands the next queued request to the presentation layer.
// Assumes lock is held by caller.
func (g *Game) dispatchEffect() {
	if len(g.effects) == 0 {
		return
	}
	next := g.effects[0]
	g.effects = g.effects[1:]
	g.activeEffect = next

	seat := next.req.PlayerIndex
	g.fireEvent(GameEvent{Type: EventEffect, Player: &seat, Payload: map[string]interface{}{
		"id":     next.req.ID,
		"amount": next.req.Amount,
		"title":  next.req.Title,
	}})
	if g.EffectFn != nil {
		g.EffectFn(next.req)
	}
}

// CompleteEffect marks reward animation id as finished and applies its score
// change. Unknown, stale, or repeated ids are ignored.
func (g *Game) CompleteEffect(id int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	active := g.activeEffect
	if active == nil || active.req.ID != id || g.phase == PhaseWon {
		return
	}
	g.activeEffect = nil
	active.apply()
	if g.phase != PhaseWon && g.activeEffect == nil && len(g.effects) > 0 {
		g.phase = PhaseRewarding
		g.dispatchEffect()
	}
}

// ActiveEffect returns the outstanding reward request, if any.
func (g *Game) ActiveEffect() (EffectRequest, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.activeEffect == nil {
		return EffectRequest{}, false
	}
	return g.activeEffect.req, true
}
