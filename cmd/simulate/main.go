// Package main plays a headless game between AI seats and prints the
// narration as it happens.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/internal/game"
	"github.com/jason-s-yu/sojourn/internal/setup"
	"github.com/sirupsen/logrus"
)

// maxSteps bounds a run; a game that has not ended by then is reported stuck.
const maxSteps = 200000

var errStuck = errors.New("simulation made no progress")

type options struct {
	Players int
	Goal    int
	Mode    engine.Mode
	Seed    uint64
}

type result struct {
	Winner    engine.Player
	Standings []engine.Standing
	Turns     int
	Elapsed   time.Duration // Virtual table time.
}

func main() {
	var opts options
	var mode string
	var verbose bool
	flag.IntVar(&opts.Players, "players", 4, "number of AI seats (2-4)")
	flag.IntVar(&opts.Goal, "goal", setup.DefaultGoal, "shares of meat needed to win")
	flag.StringVar(&mode, "mode", string(engine.ModeQuick), "game mode: quick, normal or advanced")
	flag.Uint64Var(&opts.Seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	logrus.SetLevel(logrus.WarnLevel)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	m, err := setup.Mode(engine.Mode(mode))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	opts.Mode = m

	res, err := run(opts, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n%s wins after %d turns (%s of table time).\n", res.Winner.Name, res.Turns, res.Elapsed.Round(time.Second))
	for _, s := range res.Standings {
		fmt.Printf("%d. %-10s %-10s %2d\n", s.Rank, s.Player.Name, s.Player.Character.DisplayName(), s.Player.Score)
	}
}

// run plays one game to the end, writing each narration line to out.
func run(opts options, out io.Writer) (result, error) {
	rules := engine.DefaultHouseRules()
	seats, err := setup.Defaults(opts.Players, rules)
	if err != nil {
		return result{}, err
	}
	for i := range seats {
		seats[i].IsAI = true
		seats[i].Name = setup.DefaultName(i, true)
	}
	players, err := setup.Players(seats, rules)
	if err != nil {
		return result{}, err
	}
	goal, err := setup.Goal(opts.Goal)
	if err != nil {
		return result{}, err
	}

	clock := &stepClock{}
	g := game.NewGameWithClock(clock)
	g.BroadcastFn = func(ev game.GameEvent) {
		if ev.Type != game.EventNarration {
			return
		}
		fmt.Fprintf(out, "[%8s] %v\n", clock.Now().Round(time.Millisecond), ev.Payload["message"])
	}
	// Nobody watches the animations.
	g.EffectFn = func(req game.EffectRequest) { req.OnComplete() }

	if err := g.Start(game.Config{
		Players:      players,
		WinThreshold: goal,
		Mode:         opts.Mode,
		Rules:        &rules,
		Rand:         engine.NewRand(opts.Seed),
	}); err != nil {
		return result{}, err
	}

	for step := 0; ; step++ {
		if step >= maxSteps {
			return result{}, fmt.Errorf("%w after %d steps", errStuck, step)
		}
		switch g.Phase() {
		case game.PhaseWon:
			st := g.State()
			res := result{
				Standings: st.Standings,
				Turns:     st.TurnID + 1,
				Elapsed:   clock.Now(),
			}
			for _, p := range st.Players {
				if p.ID == st.WinnerID {
					res.Winner = p.Player
				}
			}
			return res, nil
		case game.PhaseAwaitingConfirmation:
			g.ConfirmDecision()
			continue
		case game.PhasePaused:
			if opts.Mode != engine.ModeQuick {
				g.ConfirmPause()
				continue
			}
		}
		if !clock.RunNext() {
			return result{}, fmt.Errorf("%w in phase %s", errStuck, g.Phase())
		}
	}
}
