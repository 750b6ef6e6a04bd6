// internal/audio/audio.go
package audio

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Cue names a sound effect. The set is closed; unknown cues are ignored.
type Cue string

const (
	CueRoll      Cue = "roll"
	CueMove      Cue = "move"
	CueScoreGain Cue = "score_gain"
	CueClick     Cue = "click"
	CueTurnStart Cue = "turn_start"
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
	CueWin       Cue = "win"
	CueCardFlip  Cue = "card_flip"
)

var knownCues = map[Cue]struct{}{
	CueRoll: {}, CueMove: {}, CueScoreGain: {}, CueClick: {}, CueTurnStart: {},
	CueCorrect: {}, CueIncorrect: {}, CueWin: {}, CueCardFlip: {},
}

// Valid reports whether c is in the closed cue set.
func (c Cue) Valid() bool {
	_, ok := knownCues[c]
	return ok
}

// Playback is delivered to sinks for each cue played.
type Playback struct {
	Cue  Cue     `json:"cue"`
	Gain float64 `json:"gain"` // Master volume times effects volume, in [0,1].
}

// Sink renders a playback request. Sinks are called with the engine lock
// released and must not block.
type Sink func(p Playback)

// ErrClosed is returned by Init after Teardown.
var ErrClosed = errors.New("audio engine torn down")

// Engine is the process-wide sound capability. It is created once, started
// with Init, and stopped with Teardown; the orchestrator and the transport
// receive it by injection.
type Engine struct {
	mu       sync.Mutex
	ready    bool
	closed   bool
	master   float64
	effects  float64
	sinks    map[int]Sink
	nextSink int
	log      *logrus.Entry
}

// New creates an engine at full volume. It plays nothing until Init.
func New(log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		master:  1,
		effects: 1,
		sinks:   make(map[int]Sink),
		log:     log.WithField("component", "audio"),
	}
}

// Init readies the engine. Calling it twice is harmless.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.ready = true
	return nil
}

// Teardown stops playback and drops every sink. The engine cannot be
// re-initialised afterwards.
func (e *Engine) Teardown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ready = false
	e.closed = true
	e.sinks = make(map[int]Sink)
}

// Subscribe registers a sink and returns a function that removes it.
func (e *Engine) Subscribe(s Sink) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSink
	e.nextSink++
	e.sinks[id] = s
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.sinks, id)
	}
}

// SetVolume sets master and effects volume, each clamped to [0,1].
func (e *Engine) SetVolume(master, effects float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.master = clamp01(master)
	e.effects = clamp01(effects)
}

// Play fans cue out to every sink. Unknown cues, an uninitialised engine and
// zero gain are all no-ops.
func (e *Engine) Play(cue Cue) {
	if !cue.Valid() {
		e.log.Debugf("ignoring unknown cue %q", cue)
		return
	}
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return
	}
	p := Playback{Cue: cue, Gain: e.master * e.effects}
	sinks := make([]Sink, 0, len(e.sinks))
	for _, s := range e.sinks {
		sinks = append(sinks, s)
	}
	e.mu.Unlock()

	if p.Gain == 0 {
		return
	}
	for _, s := range sinks {
		s(p)
	}
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
