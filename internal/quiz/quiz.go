// Package quiz produces trial questions on demand for advanced games.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sojourn/engine"
)

// Generator produces a trial question about topic. Any error means the
// caller should use static content instead.
type Generator interface {
	Generate(ctx context.Context, topic string) (engine.TrialCard, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, topic string) (engine.TrialCard, error)

func (f GeneratorFunc) Generate(ctx context.Context, topic string) (engine.TrialCard, error) {
	return f(ctx, topic)
}

var (
	ErrEmptyResponse = errors.New("quiz: empty response")
	ErrMalformed     = errors.New("quiz: malformed trial")
)

// payload is the wire shape a generator must return.
type payload struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Analysis    string   `json:"analysis"`
	Quote       string   `json:"quote"`
}

// Parse decodes and validates a generated trial. The result is flagged as
// generated and given a fresh ID.
func Parse(raw string) (engine.TrialCard, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return engine.TrialCard{}, ErrEmptyResponse
	}
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return engine.TrialCard{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(p.Options) != 4 {
		return engine.TrialCard{}, fmt.Errorf("%w: want 4 options, got %d", ErrMalformed, len(p.Options))
	}
	card := engine.TrialCard{
		ID:          "gen-" + uuid.NewString(),
		Question:    p.Question,
		AnswerIndex: p.AnswerIndex,
		Analysis:    p.Analysis,
		Quote:       p.Quote,
		Generated:   true,
	}
	copy(card.Options[:], p.Options)
	if err := engine.ValidateTrial(card); err != nil {
		return engine.TrialCard{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return card, nil
}

// trialSchema is the JSON schema handed to structured-output models.
var trialSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question":    map[string]any{"type": "string"},
		"options":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"answerIndex": map[string]any{"type": "integer"},
		"analysis":    map[string]any{"type": "string"},
		"quote":       map[string]any{"type": "string"},
	},
	"required":             []string{"question", "options", "answerIndex", "analysis", "quote"},
	"additionalProperties": false,
}

func prompt(topic string) string {
	return fmt.Sprintf("Write one single-choice question about the state of %s and Confucian thought. "+
		"Give exactly four options, the zero-based index of the correct one, a short analysis, "+
		"and a supporting quotation with its source.", topic)
}
