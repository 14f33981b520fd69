// Package transport moves audio between clients and the gateway over
// Redis pub/sub channels.
package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/corvidlabs/voicegate/config"
	"github.com/corvidlabs/voicegate/log"
)

const (
	// streamPattern matches every client's uplink channel. The last
	// segment of the channel name is the client id.
	streamPattern = "voice/stream/*"
	// responsePrefix is the downlink channel prefix for reply audio.
	responsePrefix = "voice/response/"
)

// ChunkHandler receives one uplink payload for one client.
type ChunkHandler func(ctx context.Context, clientID string, payload []byte)

// Gateway is the Redis-backed pub/sub transport.
type Gateway struct {
	rdb *redis.Client
	ctx context.Context
}

// New connects to the broker and verifies it responds.
func New(cfg config.RedisConfig) (*Gateway, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to broker at %s: %w", cfg.Addr, err)
	}
	return &Gateway{rdb: rdb, ctx: ctx}, nil
}

// Listen subscribes to every client uplink channel and feeds payloads to
// the handler in subscription order. It blocks until ctx is cancelled or
// the subscription is torn down.
func (g *Gateway) Listen(ctx context.Context, handler ChunkHandler) error {
	pubsub := g.rdb.PSubscribe(ctx, streamPattern)
	defer func() { _ = pubsub.Close() }()

	// Force the subscription onto the wire before reporting readiness.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("could not subscribe to %s: %w", streamPattern, err)
	}
	log.Info("listening on %s", streamPattern)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			clientID := clientFromChannel(msg.Channel)
			if clientID == "" {
				log.Info("ignoring message on malformed channel %q", msg.Channel)
				continue
			}
			handler(ctx, clientID, []byte(msg.Payload))
		}
	}
}

// PublishAudio sends reply audio to one client's downlink channel.
func (g *Gateway) PublishAudio(clientID string, data []byte) error {
	return g.rdb.Publish(g.ctx, responsePrefix+clientID, data).Err()
}

// Ping checks broker liveness.
func (g *Gateway) Ping() error {
	return g.rdb.Ping(g.ctx).Err()
}

// Close tears down the broker connection.
func (g *Gateway) Close() error {
	return g.rdb.Close()
}

// clientFromChannel extracts the client id from an uplink channel name.
// Returns "" when the channel carries no id segment.
func clientFromChannel(channel string) string {
	idx := strings.LastIndex(channel, "/")
	if idx < 0 || idx == len(channel)-1 {
		return ""
	}
	return channel[idx+1:]
}
