// internal/handlers/table.go
package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/internal/audio"
	"github.com/jason-s-yu/sojourn/internal/auth"
	"github.com/jason-s-yu/sojourn/internal/game"
	"github.com/jason-s-yu/sojourn/internal/models"
	"github.com/jason-s-yu/sojourn/internal/quiz"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jason-s-yu/sojourn/internal/handlers"

// sendBuffer bounds each client's outbound queue. A client that falls this
// far behind is disconnected.
const sendBuffer = 256

// client is one connected presentation layer.
type client struct {
	send   chan models.ServerMessage
	closed bool
}

// Table hosts a single game for any number of presentation clients. Game
// callbacks fan out to every client; with nobody connected, reward
// animations complete at once so AI-only games keep moving.
type Table struct {
	Game   *game.Game
	Audio  *audio.Engine
	Issuer *auth.Issuer
	Log    *logrus.Entry

	mu      sync.Mutex
	clients map[*client]struct{}
	tracer  trace.Tracer
	unsub   func()
}

// TableOptions configures NewTable.
type TableOptions struct {
	Issuer      *auth.Issuer
	Audio       *audio.Engine // Optional; a private engine is created when nil.
	Quiz        quiz.Generator
	QuizTimeout time.Duration
	Clock       game.Clock // Optional; defaults to the wall clock.
	Log         *logrus.Entry
}

// NewTable creates a table with an unstarted game wired to it.
func NewTable(opts TableOptions) (*Table, error) {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	eng := opts.Audio
	if eng == nil {
		eng = audio.New(log)
		if err := eng.Init(); err != nil {
			return nil, err
		}
	}
	clock := opts.Clock
	if clock == nil {
		clock = game.RealClock()
	}

	g := game.NewGameWithClock(clock)
	g.Log = log.WithField("game", g.ID.String())
	g.Audio = eng
	g.Quiz = opts.Quiz
	if opts.QuizTimeout > 0 {
		g.QuizTimeout = opts.QuizTimeout
	}

	t := &Table{
		Game:    g,
		Audio:   eng,
		Issuer:  opts.Issuer,
		Log:     log.WithField("component", "table"),
		clients: make(map[*client]struct{}),
		tracer:  otel.Tracer(tracerName),
	}
	g.BroadcastFn = t.onEvent
	g.EffectFn = t.onEffect
	g.OnGameEnd = t.onGameEnd
	t.unsub = eng.Subscribe(t.onSound)
	return t, nil
}

// Close drops every client and stops forwarding sound.
func (t *Table) Close() {
	t.unsub()
	t.Game.Restart()
	t.mu.Lock()
	defer t.mu.Unlock()
	for c := range t.clients {
		t.dropLocked(c)
	}
}

// Clients returns the number of connected clients.
func (t *Table) Clients() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

// onEvent runs with the game lock held.
func (t *Table) onEvent(ev game.GameEvent) {
	t.broadcast(models.ServerMessage{Type: models.MessageEvent, Data: ev})
}

// onEffect runs with the game lock held. OnComplete defers through the
// game clock, so calling it here does not re-enter the lock.
func (t *Table) onEffect(req game.EffectRequest) {
	if t.Clients() == 0 {
		req.OnComplete()
		return
	}
	t.broadcast(models.ServerMessage{Type: models.MessageEffect, Data: req})
}

func (t *Table) onSound(p audio.Playback) {
	t.broadcast(models.ServerMessage{Type: models.MessageSound, Data: p})
}

func (t *Table) onGameEnd(gameID, winner uuid.UUID, standings []engine.Standing) {
	t.Log.Infof("Game %s: finished, winner %s, %d seats ranked.", gameID, winner, len(standings))
}

// broadcast queues msg for every client without blocking.
func (t *Table) broadcast(msg models.ServerMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for c := range t.clients {
		select {
		case c.send <- msg:
		default:
			t.Log.Warn("client send buffer full, dropping client")
			t.dropLocked(c)
		}
	}
}

func (t *Table) register() *client {
	c := &client{send: make(chan models.ServerMessage, sendBuffer)}
	t.mu.Lock()
	t.clients[c] = struct{}{}
	t.mu.Unlock()
	return c
}

// unregister removes c. When the last client leaves, any outstanding reward
// animation is completed so the game is never left waiting on nobody.
func (t *Table) unregister(c *client) {
	t.mu.Lock()
	t.dropLocked(c)
	empty := len(t.clients) == 0
	t.mu.Unlock()

	if empty {
		if req, ok := t.Game.ActiveEffect(); ok {
			t.Game.CompleteEffect(req.ID)
		}
	}
}

// Assumes t.mu is held by caller.
func (t *Table) dropLocked(c *client) {
	if c.closed {
		return
	}
	c.closed = true
	delete(t.clients, c)
	close(c.send)
}

// dispatch applies one client action to the game.
func (t *Table) dispatch(a models.ClientAction) {
	g := t.Game
	switch a.Type {
	case models.ActionRoll:
		g.RequestRoll()
	case models.ActionAnswer:
		g.AnswerTrial(a.Choice)
	case models.ActionAccept:
		switch g.Modal() {
		case engine.ModalFate:
			g.ResolveFate()
		case engine.ModalChance:
			g.ResolveChance()
		case engine.ModalEventDetail:
			g.ResolveEventDetail()
		}
	case models.ActionConfirm:
		g.ConfirmDecision()
	case models.ActionConfirmPause:
		g.ConfirmPause()
	case models.ActionEffectDone:
		g.CompleteEffect(a.ID)
	case models.ActionRestart:
		g.Restart()
	case models.ActionVolume:
		t.Audio.SetVolume(a.Master, a.Effects)
	default:
		t.Log.Debugf("ignoring unknown action %q", a.Type)
	}
}
