package engine

import "github.com/google/uuid"

// PauseState tracks skipped turns for a player.
type PauseState struct {
	Paused      bool `json:"isPaused"`
	TurnsToSkip int  `json:"turnsToSkip"`
	WasPaused   bool `json:"wasPaused"` // Set when the last skip is served; cleared by the recovery notice.
}

// Player is one seat at the table.
type Player struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Character     Character  `json:"character"`
	Position      int        `json:"position"`
	Score         int        `json:"meat"`
	Pause         PauseState `json:"pause"`
	HasProtection bool       `json:"hasProtection"` // Set by some fate cards; nothing consumes it yet.
	IsAI          bool       `json:"isAI"`
}

// NewPlayer creates a player standing on START with no score.
func NewPlayer(name string, c Character, isAI bool) Player {
	return Player{
		ID:        uuid.New(),
		Name:      name,
		Character: c,
		IsAI:      isAI,
	}
}

// AddScore applies a signed delta, never letting the score drop below zero.
func (p *Player) AddScore(delta int) {
	p.Score = ClampScore(p.Score + delta)
}

// AddPause queues one more skipped turn.
func (p *Player) AddPause() {
	p.Pause.Paused = true
	p.Pause.TurnsToSkip++
}

// ServePause consumes one skipped turn.
func (p *Player) ServePause() {
	p.Pause.TurnsToSkip = max(0, p.Pause.TurnsToSkip-1)
	p.Pause.Paused = p.Pause.TurnsToSkip > 0
	p.Pause.WasPaused = p.Pause.TurnsToSkip == 0
}

// MustSkip reports whether the player's next turn is skipped.
func (p *Player) MustSkip() bool {
	return p.Pause.Paused && p.Pause.TurnsToSkip > 0
}

// ClampScore floors a score at zero.
func ClampScore(score int) int {
	return max(0, score)
}
