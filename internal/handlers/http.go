// internal/handlers/http.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/internal/game"
	"github.com/jason-s-yu/sojourn/internal/models"
	"github.com/jason-s-yu/sojourn/internal/setup"
	"go.opentelemetry.io/otel/attribute"
)

// Routes returns the table's HTTP handler.
func (t *Table) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/table", t.handleCreate)
	mux.HandleFunc("GET /ws", t.handleSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// handleCreate validates a start-screen roster and starts the game.
func (t *Table) handleCreate(w http.ResponseWriter, r *http.Request) {
	_, span := t.tracer.Start(r.Context(), "table.create")
	defer span.End()

	var req models.TableRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
	}

	rules := engine.DefaultHouseRules()
	entries := req.Players
	if len(entries) == 0 {
		var err error
		if entries, err = setup.Defaults(rules.MinPlayers, rules); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	players, err := setup.Players(entries, rules)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	goal, err := setup.Goal(req.WinGoal)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, err := setup.Mode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.Int("table.players", len(players)),
		attribute.Int("table.goal", goal),
		attribute.String("table.mode", string(mode)),
	)

	if err := t.Game.Start(game.Config{Players: players, WinThreshold: goal, Mode: mode, Rules: &rules}); err != nil {
		t.Log.Errorf("Game %s: start failed: %v", t.Game.ID, err)
		http.Error(w, "could not start game", http.StatusInternalServerError)
		return
	}
	token, err := t.Issuer.Issue(t.Game.ID)
	if err != nil {
		t.Log.Errorf("Game %s: issuing seat token: %v", t.Game.ID, err)
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}

	st := t.Game.State()
	players = make([]engine.Player, len(st.Players))
	for i, p := range st.Players {
		players[i] = p.Player
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(models.TableResponse{GameID: st.GameID, Token: token, Players: players})
}

// handleSocket upgrades a seat-token holder to the table's event stream.
func (t *Table) handleSocket(w http.ResponseWriter, r *http.Request) {
	claims, err := t.Issuer.Parse(r.URL.Query().Get("token"))
	if err != nil || claims.GameID != t.Game.ID {
		http.Error(w, "invalid seat token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		t.Log.Warnf("websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := t.register()
	defer t.unregister(c)
	t.Log.Infof("Game %s: client connected (%d total).", t.Game.ID, t.Clients())

	st := t.Game.State()
	if err := wsjson.Write(ctx, conn, models.ServerMessage{
		Type: models.MessageEvent,
		Data: game.GameEvent{Type: game.EventSyncState, State: &st},
	}); err != nil {
		return
	}

	go t.writeLoop(ctx, cancel, conn, c)
	t.readLoop(ctx, conn)
}

// writeLoop drains c until it is closed or the connection fails.
func (t *Table) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, c *client) {
	defer cancel()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				conn.Close(websocket.StatusPolicyViolation, "dropped")
				return
			}
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (t *Table) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var a models.ClientAction
		if err := wsjson.Read(ctx, conn, &a); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				t.Log.Debugf("Game %s: read: %v", t.Game.ID, err)
			}
			return
		}
		_, span := t.tracer.Start(ctx, "table.action")
		span.SetAttributes(attribute.String("table.action", string(a.Type)))
		t.dispatch(a)
		span.End()
	}
}
