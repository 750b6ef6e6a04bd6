package engine

import "fmt"

// TileType classifies what happens when a player stops on a tile.
type TileType string

const (
	TileStart  TileType = "START"
	TileState  TileType = "STATE"  // opens a trial
	TileFate   TileType = "FATE"   // draws a fate card
	TileChance TileType = "CHANCE" // draws a chance card
	TileEvent  TileType = "EVENT"  // fixed narrative keyed by tile name
)

// Valid reports whether t is one of the known tile types.
func (t TileType) Valid() bool {
	switch t {
	case TileStart, TileState, TileFate, TileChance, TileEvent:
		return true
	}
	return false
}

// Tile is one fixed position on the board. Tiles are immutable once loaded.
type Tile struct {
	ID          int      `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Type        TileType `yaml:"type" json:"type"`
	State       string   `yaml:"state,omitempty" json:"state,omitempty"` // Region name, used as the quiz topic.
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// Character identifies which disciple (or the master) a seat plays as.
// Each character may appear at most once per game.
type Character string

const (
	Confucius Character = "confucius"
	Zilu      Character = "zilu"
	YanHui    Character = "yan_hui"
	Zigong    Character = "zigong"
)

// Characters lists every selectable character in seat-default order.
var Characters = []Character{Confucius, Zilu, YanHui, Zigong}

// Valid reports whether c is a known character.
func (c Character) Valid() bool {
	for _, k := range Characters {
		if k == c {
			return true
		}
	}
	return false
}

// DisplayName returns the name used in narration.
func (c Character) DisplayName() string {
	switch c {
	case Confucius:
		return "Confucius"
	case Zilu:
		return "Zilu"
	case YanHui:
		return "Yan Hui"
	case Zigong:
		return "Zigong"
	}
	return string(c)
}

// Mode is the game-speed / AI-confirmation mode.
type Mode string

const (
	ModeQuick    Mode = "quick"    // AI decisions apply immediately.
	ModeNormal   Mode = "normal"   // AI decisions wait for a human confirmation.
	ModeAdvanced Mode = "advanced" // As normal, with generated trial questions.
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeQuick, ModeNormal, ModeAdvanced:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// GeneratesQuiz reports whether trials in this mode are requested from a quiz generator.
func (m Mode) GeneratesQuiz() bool { return m == ModeAdvanced }

// ModalKind is the single active pending-resolution surface.
type ModalKind uint8

const (
	ModalNone ModalKind = iota
	ModalTrial
	ModalFate
	ModalChance
	ModalEventDetail
	ModalWin
)

// String returns the wire name of the modal.
func (k ModalKind) String() string {
	switch k {
	case ModalTrial:
		return "TRIAL"
	case ModalFate:
		return "FATE"
	case ModalChance:
		return "CHANCE"
	case ModalEventDetail:
		return "EVENT_DETAIL"
	case ModalWin:
		return "WIN"
	}
	return ""
}
