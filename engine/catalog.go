package engine

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var (
	ErrUnknownMode    = errors.New("unknown game mode")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog is the static content of a game: the board and every card pool.
// All pools are read-only after load.
type Catalog struct {
	Board   []Tile       `yaml:"board"`
	Trials  []TrialCard  `yaml:"trials"`
	Fates   []FateCard   `yaml:"fates"`
	Chances []ChanceCard `yaml:"chances"`
	Events  []EventCard  `yaml:"events"`
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the embedded catalog. It is decoded once and shared.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadCatalog(bytes.NewReader(defaultCatalogYAML))
	})
	return defaultCatalog, defaultErr
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

// Validate checks the structural rules every catalog must satisfy.
func (c *Catalog) Validate() error {
	if len(c.Board) == 0 {
		return invalid("board is empty")
	}
	for i, t := range c.Board {
		if t.ID != i {
			return invalid("tile %d has id %d", i, t.ID)
		}
		if !t.Type.Valid() {
			return invalid("tile %d has unknown type %q", i, t.Type)
		}
	}
	if c.Board[0].Type != TileStart {
		return invalid("tile 0 must be START, got %s", c.Board[0].Type)
	}
	if len(c.Trials) == 0 || len(c.Fates) == 0 || len(c.Chances) == 0 {
		return invalid("trial, fate and chance pools must be non-empty")
	}
	for _, t := range c.Trials {
		if err := ValidateTrial(t); err != nil {
			return invalid("trial %s: %v", t.ID, err)
		}
	}
	for _, f := range c.Fates {
		if f.Effect.Teleport != nil && !c.onBoard(*f.Effect.Teleport) {
			return invalid("fate %s teleports off the board", f.ID)
		}
	}
	for _, ch := range c.Chances {
		if ch.Effect.Teleport != nil && !c.onBoard(*ch.Effect.Teleport) {
			return invalid("chance %s teleports off the board", ch.ID)
		}
		if !ch.Effect.Special.Valid() {
			return invalid("chance %s has unknown special %q", ch.ID, ch.Effect.Special)
		}
	}
	for _, e := range c.Events {
		if strings.TrimSpace(e.Key) == "" {
			return invalid("event %q has an empty key", e.Title)
		}
		if !e.Effect.Valid() {
			return invalid("event %q has unknown effect %q", e.Key, e.Effect)
		}
	}
	return nil
}

func (c *Catalog) onBoard(pos int) bool { return pos >= 0 && pos < len(c.Board) }

// ValidateTrial checks a quiz question's shape. Generated questions go
// through the same check before they are shown.
func ValidateTrial(t TrialCard) error {
	if strings.TrimSpace(t.Question) == "" {
		return errors.New("empty question")
	}
	for i, o := range t.Options {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	if t.AnswerIndex < 0 || t.AnswerIndex >= len(t.Options) {
		return fmt.Errorf("answer index %d out of range", t.AnswerIndex)
	}
	return nil
}

// BoardModel returns the board as a Board value.
func (c *Catalog) BoardModel() Board { return Board{Tiles: c.Board} }

// DrawTrial picks a trial uniformly at random, with replacement.
func (c *Catalog) DrawTrial(rng *rand.Rand) TrialCard {
	return c.Trials[rng.IntN(len(c.Trials))]
}

// DrawFate picks a fate card uniformly at random, with replacement.
func (c *Catalog) DrawFate(rng *rand.Rand) FateCard {
	return c.Fates[rng.IntN(len(c.Fates))]
}

// DrawChance picks a chance card uniformly at random, with replacement.
func (c *Catalog) DrawChance(rng *rand.Rand) ChanceCard {
	return c.Chances[rng.IntN(len(c.Chances))]
}

// MatchEvent returns the first event, in catalog order, whose key occurs in
// tileName.
func (c *Catalog) MatchEvent(tileName string) (EventCard, bool) {
	for _, e := range c.Events {
		if strings.Contains(tileName, e.Key) {
			return e, true
		}
	}
	return EventCard{}, false
}
