// internal/game/turn.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/engine/agent"
	"github.com/jason-s-yu/sojourn/internal/audio"
)

// RequestRoll rolls for the current player. It is a no-op unless the table
// is idle, and in quick mode a human cannot roll for an AI seat.
func (g *Game) RequestRoll() {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.phase != PhaseIdle {
		g.Log.Debugf("Game %s: roll ignored in phase %s.", g.ID, g.phase)
		return
	}
	if g.currentPlayer().IsAI && g.Mode == engine.ModeQuick {
		return
	}
	g.roll()
}

// roll starts the dice animation and, after it settles, moves the current player.
// Assumes lock is held by caller.
func (g *Game) roll() {
	if g.phase != PhaseIdle {
		return
	}
	g.phase = PhaseRolling
	g.play(audio.CueRoll)
	g.fireSeatEvent(EventRolling, g.current, nil)

	g.schedule(g.Timings.DiceSettle, func() {
		g.dice = engine.RollDice(g.rng)
		total := g.dice[0] + g.dice[1]
		g.narrate("%s rolls %d and %d, moving %d steps.", g.playerName(g.current), g.dice[0], g.dice[1], total)
		g.fireSeatEvent(EventDiceResult, g.current, map[string]interface{}{"dice": g.dice, "total": total})
		g.logAction(g.currentPlayer().ID, "dice_rolled", map[string]interface{}{"dice": g.dice})
		g.movePlayer(total, g.current)
	})
}

// MovePlayer walks target (a seat index; negative means the current player)
// forward by steps, one tile per MoveStep. It only acts while the table is idle.
func (g *Game) MovePlayer(steps int, target int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.phase != PhaseIdle {
		return
	}
	if target < 0 {
		target = g.current
	}
	if target >= len(g.Players) || steps < 0 {
		return
	}
	g.movePlayer(steps, target)
}

// Assumes lock is held by caller.
func (g *Game) movePlayer(steps, target int) {
	g.phase = PhaseMoving
	g.moveTarget = target
	g.moveRemaining = steps
	g.movePassStart = false
	if steps == 0 {
		g.finishMove()
		return
	}
	g.schedule(g.Timings.MoveStep, g.stepMove)
}

// stepMove advances the mover by one tile.
// Assumes lock is held by caller.
func (g *Game) stepMove() {
	p := &g.Players[g.moveTarget]
	next, passed := g.Board.Step(p.Position)
	p.Position = next
	if passed {
		g.movePassStart = true
	}
	g.moveRemaining--
	g.play(audio.CueMove)
	g.fireSeatEvent(EventPlayerMove, g.moveTarget, map[string]interface{}{"position": next})

	if g.moveRemaining > 0 {
		g.schedule(g.Timings.MoveStep, g.stepMove)
		return
	}
	g.finishMove()
}

// finishMove awards the pass-START bonus, if earned, before the landed tile
// is resolved. A player moved out of turn ends the turn instead.
// Assumes lock is held by caller.
func (g *Game) finishMove() {
	mover := g.moveTarget
	landed := g.Players[mover].Position
	g.logAction(g.Players[mover].ID, "player_moved", map[string]interface{}{"position": landed})

	if g.movePassStart && mover == g.current {
		g.movePassStart = false
		g.narrate("%s returns home to Lu and receives a share of sacrificial meat.", g.playerName(mover))
		g.requestEffect(mover, g.Rules.PassStartReward, "Passing Lu", func() {
			g.applyScore(mover, g.Rules.PassStartReward)
			if g.checkWin() {
				return
			}
			g.resolveTile(landed)
		})
		return
	}

	g.schedule(g.Timings.MoveSettle, func() {
		if mover == g.current {
			g.resolveTile(landed)
			return
		}
		g.advanceTurn()
	})
}

// ResolveTile resolves tile idx for the current player without moving them.
// It only acts while the table is idle.
func (g *Game) ResolveTile(idx int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.phase != PhaseIdle {
		return
	}
	g.resolveTile(idx)
}

// resolveTile dispatches on the tile type. Exactly one of: a modal opens
// (possibly after a reveal), or the turn advances.
// Assumes lock is held by caller.
func (g *Game) resolveTile(idx int) {
	if g.phase == PhaseWon {
		return
	}
	tile := g.Board.Tile(idx)
	g.play(audio.CueCardFlip)
	g.narrate("%s stops at %s.", g.playerName(g.current), tile.Name)

	switch tile.Type {
	case engine.TileState:
		if g.Mode.GeneratesQuiz() && g.Quiz != nil {
			g.generateTrial(tile)
			return
		}
		card := g.Catalog.DrawTrial(g.rng)
		g.openModal(engine.ModalTrial, &card)
	case engine.TileFate:
		g.reveal(engine.ModalFate, func() {
			card := g.Catalog.DrawFate(g.rng)
			g.openModal(engine.ModalFate, &card)
		})
	case engine.TileChance:
		g.reveal(engine.ModalChance, func() {
			card := g.Catalog.DrawChance(g.rng)
			g.openModal(engine.ModalChance, &card)
		})
	case engine.TileEvent:
		ev, ok := g.Catalog.MatchEvent(tile.Name)
		if !ok {
			g.advanceTurn()
			return
		}
		g.openModal(engine.ModalEventDetail, &ev)
	default:
		g.advanceTurn()
	}
}

// reveal shows the big card icon for the Reveal dwell, then runs open.
// Assumes lock is held by caller.
func (g *Game) reveal(kind engine.ModalKind, open func()) {
	g.phase = PhaseRevealing
	g.fireSeatEvent(EventReveal, g.current, map[string]interface{}{"kind": kind.String()})
	g.schedule(g.Timings.Reveal, open)
}

// AdvanceTurn ends the current turn and starts the next player's.
func (g *Game) AdvanceTurn() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.advanceTurn()
}

// advanceTurn is the only place the current player changes. It cancels every
// timer, drops transient turn state, and moves the pointer exactly once.
// Assumes lock is held by caller.
func (g *Game) advanceTurn() {
	if g.phase == PhaseWon || g.phase == PhaseSetup {
		return
	}
	g.cancelTimers()
	g.clearModal()
	g.effects = nil
	g.activeEffect = nil
	g.moveTarget = -1
	g.moveRemaining = 0
	g.movePassStart = false

	g.current = (g.current + 1) % len(g.Players)
	g.turnID++
	g.play(audio.CueTurnStart)
	g.fireSeatEvent(EventTurnStart, g.current, map[string]interface{}{"turnId": g.turnID})
	g.startTurn()
}

// startTurn shows the pause or recovery notice if due, otherwise readies the
// current player to roll.
// Assumes lock is held by caller.
func (g *Game) startTurn() {
	p := g.currentPlayer()
	switch {
	case p.MustSkip():
		g.phase = PhasePaused
		g.narrate("%s must pause this turn.", g.playerName(g.current))
		g.fireSeatEvent(EventPauseNotice, g.current, map[string]interface{}{
			"turnsToSkip": p.Pause.TurnsToSkip,
			"canConfirm":  g.Mode != engine.ModeQuick || !p.IsAI,
		})
		if g.Mode == engine.ModeQuick && p.IsAI {
			g.schedule(g.Timings.PauseAutoConfirm, g.confirmPause)
		}
	case p.Pause.WasPaused:
		g.phase = PhaseRecovering
		g.fireSeatEvent(EventRecovery, g.current, nil)
		seat := g.current
		g.schedule(g.Timings.Recovery, func() {
			g.Players[seat].Pause.WasPaused = false
			g.narrate("%s returns to the road.", g.playerName(seat))
			g.enterIdle()
		})
	default:
		g.narrate("%s begins the turn.", g.playerName(g.current))
		g.enterIdle()
	}
}

// enterIdle waits for a roll; an AI seat rolls by itself after its delay.
// Assumes lock is held by caller.
func (g *Game) enterIdle() {
	g.phase = PhaseIdle
	if g.currentPlayer().IsAI {
		g.schedule(agent.RollDelayFor(g.Mode), g.roll)
	}
}

// ConfirmPause acknowledges the pause notice. In quick mode an AI seat's
// notice confirms itself and this call is ignored.
func (g *Game) ConfirmPause() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.phase != PhasePaused {
		return
	}
	if g.Mode == engine.ModeQuick && g.currentPlayer().IsAI {
		return
	}
	g.confirmPause()
}

// confirmPause serves one skipped turn and moves on.
// Assumes lock is held by caller.
func (g *Game) confirmPause() {
	if g.phase != PhasePaused {
		return
	}
	g.play(audio.CueClick)
	p := g.currentPlayer()
	p.ServePause()
	g.logAction(p.ID, "pause_served", map[string]interface{}{"turnsToSkip": p.Pause.TurnsToSkip})
	g.phase = PhaseResolving
	g.schedule(g.Timings.PauseConfirm, g.advanceTurn)
}

// CheckWin reports whether the game has a winner, declaring one if a player
// has reached the threshold.
func (g *Game) CheckWin() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.phase == PhaseWon {
		return true
	}
	if g.phase == PhaseSetup {
		return false
	}
	return g.checkWin()
}

// checkWin declares the first player in seat order at or above the threshold
// the winner. The WIN state is terminal: timers and queued rewards are dropped.
// Assumes lock is held by caller.
func (g *Game) checkWin() bool {
	w := engine.Winner(g.Players, g.Rules.WinThreshold)
	if w < 0 {
		return false
	}
	g.cancelTimers()
	g.clearModal()
	g.effects = nil
	g.activeEffect = nil
	g.winner = w
	g.modal = engine.ModalWin
	g.phase = PhaseWon

	winner := g.Players[w]
	g.narrate("%s is first to gather %d shares of meat and completes the journey!", g.playerName(w), winner.Score)
	g.play(audio.CueWin)
	standings := engine.Standings(g.Players)
	g.Log.Infof("Game %s: %s wins with %d.", g.ID, winner.Name, winner.Score)
	g.logAction(winner.ID, "game_end", map[string]interface{}{"score": winner.Score, "turns": g.turnID})
	g.broadcastState(EventGameEnd)
	g.archiveResult(standings)
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner.ID, standings)
	}
	return true
}

// applyScore changes a player's score, clamped at zero.
// Assumes lock is held by caller.
func (g *Game) applyScore(seat, delta int) {
	if delta == 0 {
		return
	}
	p := &g.Players[seat]
	p.AddScore(delta)
	if delta > 0 {
		g.play(audio.CueScoreGain)
	}
	g.fireSeatEvent(EventScoreChange, seat, map[string]interface{}{"delta": delta, "score": p.Score})
	g.logAction(p.ID, "score_change", map[string]interface{}{"delta": delta, "score": p.Score})
}

// winnerID returns the winner's ID, or uuid.Nil.
// Assumes lock is held by caller.
func (g *Game) winnerID() uuid.UUID {
	if g.winner < 0 || g.winner >= len(g.Players) {
		return uuid.Nil
	}
	return g.Players[g.winner].ID
}
