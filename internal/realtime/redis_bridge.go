package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Relay receives frames published by any instance.
type Relay interface {
	Deliver(frame []byte)
}

// RedisBridge publishes events to a Redis channel and relays every message on that channel,
// including its own, to the local relay. With the bridge in place every instance's clients
// see every event exactly once.
type RedisBridge struct {
	client  *redis.Client
	channel string
	relay   Relay
	outbox  chan []byte
	ready   chan struct{}
	logger  zerolog.Logger
}

// NewRedisBridge creates a bridge on channel. Frames are queued in a buffer of queueSize.
func NewRedisBridge(client *redis.Client, channel string, relay Relay, queueSize int, logger zerolog.Logger) *RedisBridge {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &RedisBridge{
		client:  client,
		channel: channel,
		relay:   relay,
		outbox:  make(chan []byte, queueSize),
		ready:   make(chan struct{}),
		logger:  logger.With().Str("component", "redis_bridge").Str("channel", channel).Logger(),
	}
}

// Publish implements Publisher. The event is dropped when the outbox is full.
func (b *RedisBridge) Publish(evt Event) {
	frame, err := json.Marshal(evt)
	if err != nil {
		b.logger.Error().Err(err).Str("event", string(evt.Event)).Msg("failed to encode event")
		return
	}

	select {
	case b.outbox <- frame:
	default:
		b.logger.Warn().Str("event", string(evt.Event)).Msg("redis outbox full, event dropped")
	}
}

// Ready is closed once the subscription is confirmed by Redis.
func (b *RedisBridge) Ready() <-chan struct{} {
	return b.ready
}

// Run subscribes to the channel and drains the outbox until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		b.logger.Error().Err(err).Msg("failed to subscribe")
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	close(b.ready)
	b.logger.Info().Msg("redis bridge subscribed")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-messages:
				if !ok {
					return nil
				}
				b.relay.Deliver([]byte(msg.Payload))
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case frame := <-b.outbox:
				if err := b.client.Publish(ctx, b.channel, frame).Err(); err != nil {
					b.logger.Error().Err(err).Msg("failed to publish event")
				}
			}
		}
	})

	return g.Wait()
}
