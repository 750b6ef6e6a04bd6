// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/engine/agent"
	"github.com/jason-s-yu/sojourn/internal/audio"
	"github.com/jason-s-yu/sojourn/internal/cache"
	"github.com/jason-s-yu/sojourn/internal/database"
	"github.com/jason-s-yu/sojourn/internal/quiz"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc is called once when a player reaches the win threshold.
// It runs with the game lock held.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID, standings []engine.Standing)

// GameEventType represents the type of a game-related event sent to the presentation layer.
type GameEventType string

const (
	EventGameStart       GameEventType = "game_start"
	EventGameRestart     GameEventType = "game_restart"
	EventSyncState       GameEventType = "sync_state" // Snapshot for one newly connected client.
	EventNarration       GameEventType = "narration"  // A new journal line.
	EventRolling         GameEventType = "dice_rolling"
	EventDiceResult      GameEventType = "dice_result"
	EventPlayerMove      GameEventType = "player_move"  // One step, or a teleport.
	EventReveal          GameEventType = "reveal"       // Big FATE/CHANCE icon.
	EventQuizLoading     GameEventType = "quiz_loading" // Waiting on the quiz generator.
	EventModalOpen       GameEventType = "modal_open"   // Includes the active card.
	EventModalClose      GameEventType = "modal_close"
	EventTrialResult     GameEventType = "trial_result" // Chosen option and correct answer.
	EventAIDecision      GameEventType = "ai_decision"
	EventAwaitingConfirm GameEventType = "awaiting_confirmation" // AI decision held for a human.
	EventEffect          GameEventType = "effect"                // Reward animation request.
	EventScoreChange     GameEventType = "score_change"
	EventPauseNotice     GameEventType = "pause_notice" // Current player must skip.
	EventRecovery        GameEventType = "recovery"
	EventTurnStart       GameEventType = "turn_start"
	EventGameEnd         GameEventType = "game_end" // Includes standings.
)

// GameEvent is the standard structure for broadcasting game state changes.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	Player  *int                   `json:"player,omitempty"` // Seat index the event concerns.
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *SyncState             `json:"state,omitempty"` // Full snapshot for start/restart/end.
}

// Phase is the single state of the turn machine.
type Phase uint8

const (
	PhaseSetup                Phase = iota // No game configured.
	PhaseIdle                              // Waiting for the current player to roll.
	PhaseRolling                           // Dice settling.
	PhaseMoving                            // Stepping across tiles.
	PhaseRevealing                         // Card icon dwell or quiz generation.
	PhaseModal                             // A card is open and awaits a decision.
	PhaseAwaitingConfirmation              // An AI decision waits for a human to confirm it.
	PhaseResolving                         // Modal closed; a delayed step is pending.
	PhaseRewarding                         // A reward animation is outstanding.
	PhasePaused                            // Pause notice shown for the current player.
	PhaseRecovering                        // Recovery notice shown for the current player.
	PhaseWon                               // Terminal.
)

var phaseNames = [...]string{
	"setup", "idle", "rolling", "moving", "revealing", "modal",
	"awaiting_confirmation", "resolving", "rewarding", "paused", "recovering", "won",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", p)
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Timings are the named delays of a turn.
type Timings struct {
	DiceSettle       time.Duration
	MoveStep         time.Duration
	MoveSettle       time.Duration
	Reveal           time.Duration
	RewardLead       time.Duration // Between a correct answer and its reward.
	AdvanceDelay     time.Duration // Before advancing after a trial, pause event, or pause confirm.
	PauseConfirm     time.Duration
	PauseAutoConfirm time.Duration
	Recovery         time.Duration
	ChainDelay       time.Duration // Before resolving a teleport destination.
}

// DefaultTimings returns the standard delays.
func DefaultTimings() Timings {
	return Timings{
		DiceSettle:       600 * time.Millisecond,
		MoveStep:         400 * time.Millisecond,
		MoveSettle:       500 * time.Millisecond,
		Reveal:           1200 * time.Millisecond,
		RewardLead:       400 * time.Millisecond,
		AdvanceDelay:     500 * time.Millisecond,
		PauseConfirm:     300 * time.Millisecond,
		PauseAutoConfirm: 800 * time.Millisecond,
		Recovery:         1000 * time.Millisecond,
		ChainDelay:       100 * time.Millisecond,
	}
}

// Config is the finalized input of one game.
type Config struct {
	Players      []engine.Player
	WinThreshold int
	Mode         engine.Mode        // Defaults to normal.
	Catalog      *engine.Catalog    // Defaults to the embedded catalog.
	Rules        *engine.HouseRules // WinThreshold here is overridden by Config.WinThreshold.
	Timings      *Timings
	Policy       *agent.Policy
	Rand         *rand.Rand
}

var (
	ErrNoPlayers        = errors.New("game: no players")
	ErrInvalidThreshold = errors.New("game: win threshold must be positive")
)

// JournalLimit bounds the narration journal.
const JournalLimit = 15

// Game runs one table: the turn machine, its timers, and the player registry.
type Game struct {
	ID uuid.UUID

	Players []engine.Player
	Board   engine.Board
	Catalog *engine.Catalog
	Rules   engine.HouseRules
	Mode    engine.Mode
	Timings Timings
	Policy  agent.Policy

	phase   Phase
	current int
	turnID  int
	dice    [2]int
	winner  int

	modal  engine.ModalKind
	trial  *engine.TrialCard
	fate   *engine.FateCard
	chance *engine.ChanceCard
	event  *engine.EventCard
	// decision is the AI choice held for human confirmation.
	decision *agent.Decision

	moveTarget    int
	moveRemaining int
	movePassStart bool

	effects      []*pendingEffect
	activeEffect *pendingEffect
	nextEffectID int

	journal     []string
	actionIndex int

	clock       Clock
	timers      map[uint64]Timer
	nextTimerID uint64
	epoch       uint64
	quizCancel  context.CancelFunc
	rng         *rand.Rand
	spawn       func(func())

	Mu sync.Mutex

	// Collaborators. All callbacks run with the game lock held and must not
	// call back into the game synchronously.
	BroadcastFn func(ev GameEvent)
	EffectFn    func(req EffectRequest)
	OnGameEnd   OnGameEndFunc
	Audio       SoundPlayer
	Quiz        quiz.Generator
	QuizTimeout time.Duration
	Log         *logrus.Entry
}

// SoundPlayer plays a cue. *audio.Engine satisfies it.
type SoundPlayer interface {
	Play(cue audio.Cue)
}

// NewGame creates an unconfigured game using the wall clock.
func NewGame() *Game {
	return NewGameWithClock(RealClock())
}

// NewGameWithClock creates an unconfigured game driven by clock.
func NewGameWithClock(clock Clock) *Game {
	g := &Game{
		ID:          uuid.New(),
		Timings:     DefaultTimings(),
		Policy:      agent.DefaultPolicy(),
		Mode:        engine.ModeNormal,
		QuizTimeout: 8 * time.Second,
		winner:      -1,
		moveTarget:  -1,
		clock:       clock,
		timers:      make(map[uint64]Timer),
		spawn:       func(f func()) { go f() },
	}
	g.Log = logrus.WithField("game", g.ID.String())
	return g
}

// Start configures the game from cfg and begins the first turn. Any game in
// progress is discarded.
func (g *Game) Start(cfg Config) error {
	if len(cfg.Players) == 0 {
		return ErrNoPlayers
	}
	if cfg.WinThreshold <= 0 {
		return ErrInvalidThreshold
	}
	cat := cfg.Catalog
	if cat == nil {
		var err error
		if cat, err = engine.DefaultCatalog(); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()

	g.cancelTimers()
	g.reset()

	g.Catalog = cat
	g.Board = cat.BoardModel()
	g.Players = append([]engine.Player(nil), cfg.Players...)
	if cfg.Rules != nil {
		g.Rules = cfg.Rules.Normalize()
	} else {
		g.Rules = engine.DefaultHouseRules()
	}
	g.Rules.WinThreshold = cfg.WinThreshold
	g.Mode = cfg.Mode
	if g.Mode == "" {
		g.Mode = engine.ModeNormal
	}
	if cfg.Timings != nil {
		g.Timings = *cfg.Timings
	}
	if cfg.Policy != nil {
		g.Policy = *cfg.Policy
	}
	g.rng = cfg.Rand
	if g.rng == nil {
		g.rng = engine.NewRandFromEntropy()
	}

	g.Log.Infof("Game %s: starting with %d players, mode %s, goal %d.", g.ID, len(g.Players), g.Mode, g.Rules.WinThreshold)
	g.narrate("The journey begins. May the gentleman's virtue be like the wind.")
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{
		"players": len(g.Players),
		"mode":    string(g.Mode),
		"goal":    g.Rules.WinThreshold,
	})
	g.broadcastState(EventGameStart)
	g.startTurn()
	return nil
}

// Restart abandons the game. Every timer is cancelled, the registry is
// emptied, and the game waits for a new Start.
func (g *Game) Restart() {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	g.cancelTimers()
	g.reset()
	g.Players = nil
	g.narrate("The journey starts anew.")
	g.Log.Infof("Game %s: restarted.", g.ID)
	g.logAction(uuid.Nil, "game_restart", nil)
	g.broadcastState(EventGameRestart)
}

// reset clears all session state except players and collaborators. The
// journal and the historian action index start over with it.
// Assumes lock is held by caller.
func (g *Game) reset() {
	g.phase = PhaseSetup
	g.journal = nil
	g.actionIndex = 0
	g.current = 0
	g.turnID = 0
	g.dice = [2]int{1, 1}
	g.winner = -1
	g.clearModal()
	g.moveTarget = -1
	g.moveRemaining = 0
	g.movePassStart = false
	g.effects = nil
	g.activeEffect = nil
}

// clearModal closes any modal and drops its card and held decision.
// Assumes lock is held by caller.
func (g *Game) clearModal() {
	g.modal = engine.ModalNone
	g.trial = nil
	g.fate = nil
	g.chance = nil
	g.event = nil
	g.decision = nil
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.phase
}

// Journal returns the narration journal, newest first.
func (g *Game) Journal() []string {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return append([]string(nil), g.journal...)
}

// Standings returns players ordered by score.
func (g *Game) Standings() []engine.Standing {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return engine.Standings(g.Players)
}

// narrate prepends a line to the journal and broadcasts it.
// Assumes lock is held by caller.
func (g *Game) narrate(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	g.journal = append([]string{msg}, g.journal...)
	if len(g.journal) > JournalLimit {
		g.journal = g.journal[:JournalLimit]
	}
	g.Log.Debug(msg)
	g.fireEvent(GameEvent{Type: EventNarration, Payload: map[string]interface{}{"message": msg}})
}

// Assumes lock is held by caller.
func (g *Game) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// Assumes lock is held by caller.
func (g *Game) fireSeatEvent(t GameEventType, seat int, payload map[string]interface{}) {
	s := seat
	g.fireEvent(GameEvent{Type: t, Player: &s, Payload: payload})
}

// Assumes lock is held by caller.
func (g *Game) broadcastState(t GameEventType) {
	st := g.snapshot()
	g.fireEvent(GameEvent{Type: t, State: &st})
}

// Assumes lock is held by caller.
func (g *Game) play(cue audio.Cue) {
	if g.Audio != nil {
		g.Audio.Play(cue)
	}
}

// currentPlayer returns the player whose turn it is.
// Assumes lock is held by caller.
func (g *Game) currentPlayer() *engine.Player {
	return &g.Players[g.current]
}

// playerName returns the narration name for seat i.
// Assumes lock is held by caller.
func (g *Game) playerName(i int) string {
	p := g.Players[i]
	name := p.Character.DisplayName()
	if p.IsAI {
		return "[AI] " + name
	}
	return name
}

// logAction publishes an action record to the historian feed.
// Assumes lock is held by caller.
func (g *Game) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	if cache.Rdb == nil {
		return
	}
	log := g.Log
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.Warnf("Game %s: failed publishing action %d (%s): %v", rec.GameID, rec.ActionIndex, rec.ActionType, err)
		}
	}(record)
}

// archiveResult stores the final state when a database is configured.
// Assumes lock is held by caller.
func (g *Game) archiveResult(standings []engine.Standing) {
	if database.DB == nil {
		return
	}
	w := g.Players[g.winner]
	snapshot := database.FinalGameState{
		Mode:         g.Mode,
		WinThreshold: g.Rules.WinThreshold,
		WinnerID:     w.ID,
		WinnerName:   w.Name,
		Standings:    standings,
		Journal:      append([]string(nil), g.journal...),
		Turns:        g.turnID,
		FinishedAt:   time.Now().UTC(),
	}
	id, log := g.ID, g.Log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.StoreFinalGameStateInDB(ctx, id, snapshot); err != nil {
			log.Errorf("Game %s: failed archiving result: %v", id, err)
		}
	}()
}
