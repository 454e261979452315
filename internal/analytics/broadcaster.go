package analytics

import (
	"context"
	"time"

	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/messaging"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Sink receives each snapshot the broadcaster produces
type Sink interface {
	Emit(ctx context.Context, snap *Snapshot) error
}

// Broadcaster periodically rebuilds the dashboard snapshot and pushes it to
// its sinks. Build or emit failures are logged and the loop keeps running;
// it stops only when its context is cancelled.
type Broadcaster struct {
	service  *Service
	sinks    []Sink
	interval time.Duration
	logger   *logger.Logger
}

// NewBroadcaster creates a broadcaster with the given interval and sinks
func NewBroadcaster(svc *Service, interval time.Duration, log *logger.Logger, sinks ...Sink) *Broadcaster {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &Broadcaster{
		service:  svc,
		sinks:    sinks,
		interval: interval,
		logger:   log.WithComponent("broadcaster"),
	}
}

// Run broadcasts until the context is cancelled. Blocks; callers run it in
// a goroutine.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.logger.Info().Dur("interval", b.interval).Msg("analytics broadcaster started")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("analytics broadcaster stopped")
			return
		case <-ticker.C:
			b.tick(ctx)
		}
	}
}

func (b *Broadcaster) tick(ctx context.Context) {
	snap, err := b.service.BuildSnapshot(ctx, scope.System())
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to build analytics snapshot")
		return
	}

	for _, sink := range b.sinks {
		if err := sink.Emit(ctx, snap); err != nil {
			b.logger.Error().Err(err).Msg("failed to emit analytics snapshot")
		}
	}
}

// HubSink publishes snapshots to the in-process hub
type HubSink struct {
	hub *Hub
}

// NewHubSink creates a hub sink
func NewHubSink(hub *Hub) *HubSink {
	return &HubSink{hub: hub}
}

// Emit publishes the snapshot to hub subscribers
func (s *HubSink) Emit(_ context.Context, snap *Snapshot) error {
	s.hub.Publish(snap)
	return nil
}

// EventSink publishes snapshots onto the analytics exchange
type EventSink struct {
	publisher *messaging.Publisher
}

// NewEventSink creates an event bus sink
func NewEventSink(pub *messaging.Publisher) *EventSink {
	return &EventSink{publisher: pub}
}

// Emit publishes the snapshot as an analytics.snapshot event
func (s *EventSink) Emit(ctx context.Context, snap *Snapshot) error {
	return s.publisher.PublishEvent(ctx, messaging.ExchangeAnalytics, messaging.EventAnalyticsSnapshot, "analytics-service", snap)
}
