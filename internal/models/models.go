// internal/models/models.go
package models

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sojourn/engine"
)

// PlayerSetup is one row of the start screen.
type PlayerSetup struct {
	Name      string           `json:"name"`
	Character engine.Character `json:"character"`
	IsAI      bool             `json:"isAI"`
}

// TableRequest opens a new table. Zero values take the start-screen defaults.
type TableRequest struct {
	Players []PlayerSetup `json:"players"`
	WinGoal int           `json:"winGoal"`
	Mode    engine.Mode   `json:"mode"`
}

// TableResponse is returned once the table is running.
type TableResponse struct {
	GameID  uuid.UUID       `json:"gameId"`
	Token   string          `json:"token"`
	Players []engine.Player `json:"players"`
}

// ClientActionType names a message a presentation client may send.
type ClientActionType string

const (
	ActionRoll         ClientActionType = "roll"
	ActionAnswer       ClientActionType = "answer"        // Choice is the option index.
	ActionAccept       ClientActionType = "accept"        // Fate, chance or event modal.
	ActionConfirm      ClientActionType = "confirm"       // Held AI decision.
	ActionConfirmPause ClientActionType = "confirm_pause" // Pause notice.
	ActionEffectDone   ClientActionType = "effect_done"   // ID is the effect request.
	ActionRestart      ClientActionType = "restart"
	ActionVolume       ClientActionType = "volume"
)

// ClientAction is an inbound WebSocket message.
type ClientAction struct {
	Type    ClientActionType `json:"type"`
	Choice  int              `json:"choice,omitempty"`
	ID      int              `json:"id,omitempty"`
	Master  float64          `json:"master,omitempty"`
	Effects float64          `json:"effects,omitempty"`
}

// ServerMessageType tags an outbound WebSocket message.
type ServerMessageType string

const (
	MessageEvent  ServerMessageType = "event"
	MessageEffect ServerMessageType = "effect"
	MessageSound  ServerMessageType = "sound"
	MessageError  ServerMessageType = "error"
)

// ServerMessage wraps everything the table pushes to a client.
type ServerMessage struct {
	Type ServerMessageType `json:"type"`
	Data interface{}       `json:"data,omitempty"`
}
