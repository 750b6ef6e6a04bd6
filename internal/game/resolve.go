// internal/game/resolve.go
package game

import (
	"context"

	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/engine/agent"
	"github.com/jason-s-yu/sojourn/internal/audio"
)

// openModal shows card in a modal of the given kind. An AI seat starts
// thinking right away.
// Assumes lock is held by caller.
func (g *Game) openModal(kind engine.ModalKind, card engine.Card) {
	g.clearModal()
	g.modal = kind
	switch c := card.(type) {
	case *engine.TrialCard:
		g.trial = c
	case *engine.FateCard:
		g.fate = c
	case *engine.ChanceCard:
		g.chance = c
	case *engine.EventCard:
		g.event = c
	}
	g.phase = PhaseModal
	g.fireSeatEvent(EventModalOpen, g.current, map[string]interface{}{
		"modal": kind.String(),
		"card":  publicCard(card),
	})

	if g.currentPlayer().IsAI && agent.Decides(kind) {
		g.schedule(agent.DecisionDelayFor(g.Mode), g.decideForAI)
	}
}

// publicCard hides the answer of a trial until it is resolved.
func publicCard(card engine.Card) interface{} {
	if t, ok := card.(*engine.TrialCard); ok {
		return newTrialView(t)
	}
	return card
}

// generateTrial asks the quiz generator for a question about the tile's
// region. Any failure falls back to the static pool.
// Assumes lock is held by caller.
func (g *Game) generateTrial(tile engine.Tile) {
	g.phase = PhaseRevealing
	topic := tile.State
	if topic == "" {
		topic = tile.Name
	}
	g.fireSeatEvent(EventQuizLoading, g.current, map[string]interface{}{"topic": topic})

	ctx, cancel := context.WithTimeout(context.Background(), g.QuizTimeout)
	g.quizCancel = cancel
	epoch := g.epoch
	gen := g.Quiz
	g.spawn(func() {
		card, err := gen.Generate(ctx, topic)
		cancel()

		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.epoch != epoch || g.phase != PhaseRevealing {
			return
		}
		g.quizCancel = nil
		if err != nil {
			g.Log.Warnf("Game %s: quiz generation for %q failed, using static pool: %v", g.ID, topic, err)
			card = g.Catalog.DrawTrial(g.rng)
		}
		g.openModal(engine.ModalTrial, &card)
	})
}

// decideForAI runs the AI policy on the open modal. In quick mode the
// decision is applied at once; otherwise it is held for a human.
// Assumes lock is held by caller.
func (g *Game) decideForAI() {
	if g.phase != PhaseModal || g.decision != nil || !g.currentPlayer().IsAI {
		return
	}
	d := g.Policy.Decide(g.modal, g.trial, g.rng)
	g.fireSeatEvent(EventAIDecision, g.current, map[string]interface{}{
		"modal":  d.Modal.String(),
		"choice": d.Choice,
	})
	if agent.AutoApply(g.Mode) {
		g.applyDecision(d)
		return
	}
	g.decision = &d
	g.phase = PhaseAwaitingConfirmation
	g.fireSeatEvent(EventAwaitingConfirm, g.current, nil)
}

// ConfirmDecision applies the AI decision waiting for confirmation.
func (g *Game) ConfirmDecision() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.phase != PhaseAwaitingConfirmation || g.decision == nil {
		return
	}
	d := *g.decision
	g.decision = nil
	g.phase = PhaseModal
	g.play(audio.CueClick)
	g.applyDecision(d)
}

// applyDecision routes a decision into the same resolvers a human uses.
// Assumes lock is held by caller.
func (g *Game) applyDecision(d agent.Decision) {
	switch d.Modal {
	case engine.ModalTrial:
		if g.trial != nil {
			g.resolveTrial(d.Correct, d.Choice)
		}
	case engine.ModalFate:
		g.resolveFate()
	case engine.ModalChance:
		g.resolveChance()
	case engine.ModalEventDetail:
		g.resolveEventDetail()
	}
}

// humanModal reports whether a human may act on an open modal of kind.
// Assumes lock is held by caller.
func (g *Game) humanModal(kind engine.ModalKind) bool {
	return g.phase == PhaseModal && g.modal == kind && !g.currentPlayer().IsAI
}

// AnswerTrial submits the current human player's choice.
func (g *Game) AnswerTrial(choice int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.humanModal(engine.ModalTrial) || g.trial == nil {
		return
	}
	g.resolveTrial(g.trial.Correct(choice), choice)
}

// ResolveTrial resolves the open trial for the current human player.
func (g *Game) ResolveTrial(correct bool, chosen int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.humanModal(engine.ModalTrial) {
		return
	}
	g.resolveTrial(correct, chosen)
}

// resolveTrial closes the trial. A correct answer earns a reward after a
// short lead; the turn advances after the reward unless it wins the game.
// A wrong answer advances after AdvanceDelay.
// Assumes lock is held by caller.
func (g *Game) resolveTrial(correct bool, chosen int) {
	if g.phase == PhaseWon || g.modal != engine.ModalTrial {
		return
	}
	answer := -1
	if g.trial != nil {
		answer = g.trial.AnswerIndex
	}
	seat := g.current
	g.clearModal()
	g.phase = PhaseResolving
	g.fireSeatEvent(EventModalClose, seat, nil)
	g.fireSeatEvent(EventTrialResult, seat, map[string]interface{}{
		"correct": correct,
		"chosen":  chosen,
		"answer":  answer,
	})
	g.logAction(g.Players[seat].ID, "trial_answered", map[string]interface{}{"correct": correct, "chosen": chosen})

	if !correct {
		g.narrate("%s could not answer the trial.", g.playerName(seat))
		g.play(audio.CueIncorrect)
		g.schedule(g.Timings.AdvanceDelay, g.advanceTurn)
		return
	}
	g.narrate("%s answers the trial with learning and virtue and is granted meat.", g.playerName(seat))
	reward := g.Rules.TrialReward
	g.schedule(g.Timings.RewardLead, func() {
		g.requestEffect(seat, reward, "", func() {
			g.applyScore(seat, reward)
			if g.checkWin() {
				return
			}
			g.play(audio.CueCorrect)
			g.phase = PhaseResolving
			g.schedule(g.Timings.AdvanceDelay, g.advanceTurn)
		})
	})
}

// ResolveFate applies the open fate card for the current human player.
func (g *Game) ResolveFate() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.humanModal(engine.ModalFate) {
		return
	}
	g.resolveFate()
}

// Assumes lock is held by caller.
func (g *Game) resolveFate() {
	if g.phase == PhaseWon || g.modal != engine.ModalFate {
		return
	}
	card := g.fate
	seat := g.current
	g.clearModal()
	g.phase = PhaseResolving
	g.fireSeatEvent(EventModalClose, seat, nil)
	if card == nil {
		g.advanceTurn()
		return
	}
	g.narrate("%s meets fate: %s. %s", g.playerName(seat), card.Title, card.Description)
	g.logAction(g.Players[seat].ID, "fate_resolved", map[string]interface{}{"card": card.ID})

	eff := card.Effect
	finalize := func() {
		g.applyScore(seat, eff.MeatDelta)
		if eff.Pause {
			g.Players[seat].AddPause()
		}
		if eff.Protection {
			g.Players[seat].HasProtection = true
			g.narrate("%s is shielded by benevolence against one misfortune.", g.playerName(seat))
		}
		g.finishCard(seat, eff.Teleport)
	}
	if eff.MeatDelta != 0 {
		g.requestEffect(seat, eff.MeatDelta, card.Title, finalize)
		return
	}
	finalize()
}

// ResolveChance applies the open chance card for the current human player.
func (g *Game) ResolveChance() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.humanModal(engine.ModalChance) {
		return
	}
	g.resolveChance()
}

// resolveChance applies the card's effect to its target seat, or the current
// player when no valid target is named. Specials are shown but not acted on.
// Assumes lock is held by caller.
func (g *Game) resolveChance() {
	if g.phase == PhaseWon || g.modal != engine.ModalChance {
		return
	}
	card := g.chance
	g.clearModal()
	g.phase = PhaseResolving
	g.fireSeatEvent(EventModalClose, g.current, nil)
	if card == nil {
		g.advanceTurn()
		return
	}
	eff := card.Effect
	seat := g.current
	if eff.TargetPlayer != nil && *eff.TargetPlayer >= 0 && *eff.TargetPlayer < len(g.Players) {
		seat = *eff.TargetPlayer
	}
	g.narrate("%s meets a chance: %s. %s", g.playerName(g.current), card.Title, card.Challenge)
	g.logAction(g.currentPlayer().ID, "chance_resolved", map[string]interface{}{
		"card":    card.ID,
		"special": string(eff.Special),
		"target":  seat,
	})

	finalize := func() {
		g.applyScore(seat, eff.MeatDelta)
		if eff.Pause {
			g.Players[seat].AddPause()
		}
		g.finishCard(seat, eff.Teleport)
	}
	if eff.MeatDelta != 0 {
		g.narrate("%s receives %d shares of meat by chance.", g.playerName(seat), eff.MeatDelta)
		g.requestEffect(seat, eff.MeatDelta, card.Title, finalize)
		return
	}
	g.narrate("%s completes the chance.", g.playerName(g.current))
	finalize()
}

// finishCard ends a fate or chance resolution. A teleport of the current
// player re-enters tile resolution at the destination; anything else checks
// for a winner and ends the turn.
// Assumes lock is held by caller.
func (g *Game) finishCard(seat int, teleport *int) {
	if g.checkWin() {
		return
	}
	if teleport == nil {
		g.advanceTurn()
		return
	}
	dest := g.Board.Wrap(*teleport)
	g.Players[seat].Position = dest
	g.narrate("Driven by fate, %s travels to %s.", g.playerName(seat), g.Board.Tile(dest).Name)
	g.fireSeatEvent(EventPlayerMove, seat, map[string]interface{}{"position": dest, "teleport": true})
	if seat != g.current {
		g.advanceTurn()
		return
	}
	g.phase = PhaseResolving
	g.schedule(g.Timings.ChainDelay, func() { g.resolveTile(dest) })
}

// ResolveEventDetail applies the open tile event for the current human player.
func (g *Game) ResolveEventDetail() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.humanModal(engine.ModalEventDetail) {
		return
	}
	g.resolveEventDetail()
}

// Assumes lock is held by caller.
func (g *Game) resolveEventDetail() {
	if g.phase == PhaseWon || g.modal != engine.ModalEventDetail {
		return
	}
	ev := g.event
	seat := g.current
	g.clearModal()
	g.phase = PhaseResolving
	g.fireSeatEvent(EventModalClose, seat, nil)
	if ev == nil {
		g.advanceTurn()
		return
	}
	g.logAction(g.Players[seat].ID, "event_resolved", map[string]interface{}{"key": ev.Key, "effect": string(ev.Effect)})

	switch ev.Effect {
	case engine.EventGainMeat, engine.EventLoseMeat:
		amount := g.Rules.EventReward
		verb := "gains"
		if ev.Effect == engine.EventLoseMeat {
			amount = -amount
			verb = "loses"
		}
		g.requestEffect(seat, amount, ev.Title, func() {
			g.applyScore(seat, amount)
			g.narrate("At %s, %s %s a share of meat.", ev.Title, g.playerName(seat), verb)
			if !g.checkWin() {
				g.advanceTurn()
			}
		})
	case engine.EventPause:
		g.Players[seat].AddPause()
		g.narrate("%s is caught in %s and must pause for a turn.", g.playerName(seat), ev.Title)
		g.schedule(g.Timings.AdvanceDelay, g.advanceTurn)
	default:
		g.schedule(g.Timings.AdvanceDelay, g.advanceTurn)
	}
}
