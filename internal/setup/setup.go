// Package setup applies the start-screen rules: seat defaults, name limits,
// unique characters and the win goal.
package setup

import (
	"errors"
	"fmt"
	"strings"

	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/internal/models"
)

// Goal bounds offered by the start screen.
const (
	MinGoal     = 5
	MaxGoal     = 20
	DefaultGoal = 10
)

var (
	ErrPlayerCount        = errors.New("setup: player count out of range")
	ErrUnknownCharacter   = errors.New("setup: unknown character")
	ErrDuplicateCharacter = errors.New("setup: character already taken")
	ErrEmptyName          = errors.New("setup: empty player name")
	ErrGoalOutOfRange     = errors.New("setup: win goal out of range")
)

// DefaultName is the name a seat gets until its player types one.
func DefaultName(seat int, isAI bool) string {
	if isAI {
		return fmt.Sprintf("Bot %d", seat+1)
	}
	return fmt.Sprintf("Sage %d", seat+1)
}

// Defaults returns n seats: the first human, the rest AI, each with the next
// free character.
func Defaults(n int, rules engine.HouseRules) ([]models.PlayerSetup, error) {
	rules = rules.Normalize()
	if n < rules.MinPlayers || n > rules.MaxPlayers || n > len(engine.Characters) {
		return nil, fmt.Errorf("%w: %d", ErrPlayerCount, n)
	}
	out := make([]models.PlayerSetup, n)
	for i := range out {
		ai := i > 0
		out[i] = models.PlayerSetup{Name: DefaultName(i, ai), Character: engine.Characters[i], IsAI: ai}
	}
	return out, nil
}

// Players validates the roster and builds the player records in seat order.
// Names are trimmed and cut to the rules' rune limit.
func Players(entries []models.PlayerSetup, rules engine.HouseRules) ([]engine.Player, error) {
	rules = rules.Normalize()
	if len(entries) < rules.MinPlayers || len(entries) > rules.MaxPlayers {
		return nil, fmt.Errorf("%w: %d", ErrPlayerCount, len(entries))
	}
	taken := make(map[engine.Character]int, len(entries))
	players := make([]engine.Player, 0, len(entries))
	for i, e := range entries {
		if !e.Character.Valid() {
			return nil, fmt.Errorf("seat %d: %w %q", i+1, ErrUnknownCharacter, e.Character)
		}
		if prev, ok := taken[e.Character]; ok {
			return nil, fmt.Errorf("seat %d: %w by seat %d", i+1, ErrDuplicateCharacter, prev+1)
		}
		taken[e.Character] = i

		name := truncate(strings.TrimSpace(e.Name), rules.MaxNameLength)
		if name == "" {
			return nil, fmt.Errorf("seat %d: %w", i+1, ErrEmptyName)
		}
		players = append(players, engine.NewPlayer(name, e.Character, e.IsAI))
	}
	return players, nil
}

// Goal resolves a requested win goal. Zero means the default.
func Goal(goal int) (int, error) {
	if goal == 0 {
		return DefaultGoal, nil
	}
	if goal < MinGoal || goal > MaxGoal {
		return 0, fmt.Errorf("%w: %d", ErrGoalOutOfRange, goal)
	}
	return goal, nil
}

// Mode resolves a requested mode. Empty means normal.
func Mode(m engine.Mode) (engine.Mode, error) {
	if m == "" {
		return engine.ModeNormal, nil
	}
	return engine.ParseMode(string(m))
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit]))
}
