// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the shared Redis client. It is nil when Redis is not configured,
// in which case callers skip publishing.
var Rdb *redis.Client

// ActionChannel is the pub/sub channel every action is announced on.
const ActionChannel = "sojourn:actions"

// ErrNotConnected is returned when publishing without a client.
var ErrNotConnected = errors.New("redis client not initialised")

// GameActionRecord is one entry in a game's historian feed.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   uuid.UUID              `json:"actorUserId"` // Nil for table events.
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"` // Unix millis.
}

// ActionListKey is the Redis list holding a game's ordered actions.
func ActionListKey(gameID uuid.UUID) string {
	return fmt.Sprintf("sojourn:game:%s:actions", gameID)
}

// ConnectRedis creates Rdb and verifies the connection.
func ConnectRedis(ctx context.Context, addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// Close releases Rdb if it was opened.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}

// PublishGameAction appends rec to the game's action list and announces it
// on ActionChannel in one pipeline.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action %d: %w", rec.ActionIndex, err)
	}
	_, err = Rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, ActionListKey(rec.GameID), data)
		p.Publish(ctx, ActionChannel, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish action %d: %w", rec.ActionIndex, err)
	}
	return nil
}
