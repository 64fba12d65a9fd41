package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
)

const (
	DishCreated         = "dish.created"
	DishUpdated         = "dish.updated"
	DishReverted        = "dish.reverted"
	DishDeleted         = "dish.deleted"
	DishRestored        = "dish.restored"
	RestaurantCreated   = "restaurant.created"
	RestaurantUpdated   = "restaurant.updated"
	RestaurantDeleted   = "restaurant.deleted"
	RestaurantRestored  = "restaurant.restored"
	RestaurantAssigned  = "restaurant.dishes_assigned"
	RatingRecomputed    = "rating.recomputed"
	RatingInconsistency = "rating.inconsistent"
)

type Event struct {
	Type     string         `json:"type"`
	EntityID string         `json:"entity_id"`
	Payload  map[string]any `json:"payload,omitempty"`
	At       time.Time      `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type redisPublisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisPublisher connects to addr and publishes every event as JSON on channel.
func NewRedisPublisher(log *logger.Logger, addr, channel string) (Publisher, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisPublisher{
		log:     log.With("service", "RedisPublisher"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (p *redisPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

func (p *redisPublisher) Close() error {
	return p.rdb.Close()
}

type nopPublisher struct{}

func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }

// Emit publishes evt and only logs failures; catalog writes never fail because
// an event could not be delivered.
func Emit(ctx context.Context, pub Publisher, log *logger.Logger, evt Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(context.WithoutCancel(ctx), evt); err != nil && log != nil {
		log.Warn("failed to publish catalog event", "type", evt.Type, "entity_id", evt.EntityID, "error", err)
	}
}
