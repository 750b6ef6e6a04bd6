// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/engine/agent"
)

// TrialView is a trial as shown before it is answered: the answer, analysis
// and quote are withheld.
type TrialView struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   [4]string `json:"options"`
	Generated bool      `json:"generated,omitempty"`
}

func newTrialView(t *engine.TrialCard) *TrialView {
	if t == nil {
		return nil
	}
	return &TrialView{ID: t.ID, Question: t.Question, Options: t.Options, Generated: t.Generated}
}

// SyncPlayerState is one seat in a snapshot.
type SyncPlayerState struct {
	engine.Player
	Seat          int  `json:"seat"`
	IsCurrentTurn bool `json:"isCurrentTurn"`
}

// SyncState is a full snapshot of the table for a newly connected client.
type SyncState struct {
	GameID          uuid.UUID          `json:"gameId"`
	Phase           Phase              `json:"phase"`
	Mode            engine.Mode        `json:"mode"`
	WinThreshold    int                `json:"winThreshold"`
	CurrentPlayer   int                `json:"currentPlayer"`
	CurrentPlayerID uuid.UUID          `json:"currentPlayerId"`
	TurnID          int                `json:"turnId"`
	Dice            [2]int             `json:"dice"`
	Modal           string             `json:"modal,omitempty"`
	Trial           *TrialView         `json:"trial,omitempty"`
	Fate            *engine.FateCard   `json:"fate,omitempty"`
	Chance          *engine.ChanceCard `json:"chance,omitempty"`
	Event           *engine.EventCard  `json:"event,omitempty"`
	PendingDecision *agent.Decision    `json:"pendingDecision,omitempty"`
	Effect          *EffectRequest     `json:"effect,omitempty"`
	Players         []SyncPlayerState  `json:"players"`
	Journal         []string           `json:"journal"`
	WinnerID        uuid.UUID          `json:"winnerId,omitempty"`
	Standings       []engine.Standing  `json:"standings,omitempty"`
}

// State returns a snapshot of the table.
func (g *Game) State() SyncState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.snapshot()
}

// snapshot builds a SyncState.
// Assumes lock is held by caller.
func (g *Game) snapshot() SyncState {
	st := SyncState{
		GameID:        g.ID,
		Phase:         g.phase,
		Mode:          g.Mode,
		WinThreshold:  g.Rules.WinThreshold,
		CurrentPlayer: g.current,
		TurnID:        g.turnID,
		Dice:          g.dice,
		Modal:         g.modal.String(),
		Trial:         newTrialView(g.trial),
		Fate:          g.fate,
		Chance:        g.chance,
		Event:         g.event,
		Journal:       append([]string(nil), g.journal...),
		WinnerID:      g.winnerID(),
	}
	if g.decision != nil {
		d := *g.decision
		st.PendingDecision = &d
	}
	if g.activeEffect != nil {
		req := g.activeEffect.req
		st.Effect = &req
	}
	st.Players = make([]SyncPlayerState, len(g.Players))
	for i, p := range g.Players {
		st.Players[i] = SyncPlayerState{Player: p, Seat: i, IsCurrentTurn: i == g.current}
	}
	if len(g.Players) > 0 {
		st.CurrentPlayerID = g.Players[g.current].ID
	}
	if g.phase == PhaseWon {
		st.Standings = engine.Standings(g.Players)
	}
	return st
}

// CurrentPlayer returns the seat index whose turn it is.
func (g *Game) CurrentPlayer() int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.current
}

// Modal returns the open modal kind.
func (g *Game) Modal() engine.ModalKind {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.modal
}

// Player returns a copy of seat i.
func (g *Game) Player(i int) engine.Player {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Players[i]
}
