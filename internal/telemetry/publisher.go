// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package telemetry publishes engine events onto an in-process Watermill
// pub/sub channel. The engine fires events for every served recommendation
// and tracked interaction; consumers (the event log service, future
// exporters) subscribe to the single events topic.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nachoweb3/readnext/internal/metrics"
	"github.com/nachoweb3/readnext/internal/recommend"
)

// Topic is the single pub/sub topic all engine events are published on.
const Topic = "readnext.events"

// Event is the envelope written onto the events topic.
type Event struct {
	Name    string                 `json:"name"`
	At      time.Time              `json:"at"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Config holds the telemetry pipeline configuration.
type Config struct {
	// QueueSize bounds the number of events waiting to be published. Emit
	// drops events once the queue is full rather than blocking the engine.
	QueueSize int

	// ChannelBuffer is the Watermill output channel buffer per subscriber.
	ChannelBuffer int64
}

// Publisher implements recommend.EventPublisher over a gochannel pub/sub.
// Emit never blocks: events are queued and published by a single worker
// goroutine.
type Publisher struct {
	pubsub *gochannel.GoChannel
	queue  chan Event
	logger zerolog.Logger
	clock  func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ recommend.EventPublisher = (*Publisher)(nil)

// NewPublisher creates the telemetry publisher and starts its worker.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewPublisher(cfg Config, logger zerolog.Logger) *Publisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.ChannelBuffer <= 0 {
		cfg.ChannelBuffer = 64
	}

	log := logger.With().Str("component", "telemetry").Logger()

	p := &Publisher{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.ChannelBuffer,
		}, watermillLogger{logger: log}),
		queue:  make(chan Event, cfg.QueueSize),
		logger: log,
		clock:  time.Now,
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// Emit queues an event for publication. Full queue or closed publisher means
// the event is dropped and counted, never a blocked caller.
//
// The read lock is held across the send: Close closes the queue under the
// write lock, so a send can never hit a closed channel.
func (p *Publisher) Emit(event string, payload map[string]interface{}) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		metrics.TelemetryEventsDropped.Inc()
		return
	}

	select {
	case p.queue <- Event{Name: event, At: p.clock(), Payload: payload}:
	default:
		metrics.TelemetryEventsDropped.Inc()
		p.logger.Warn().Str("event", event).Msg("telemetry queue full, dropping event")
	}
}

// Subscribe returns a channel of raw event messages on the events topic.
// Messages must be Acked by the consumer.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return p.pubsub.Subscribe(ctx, Topic)
}

// Close drains the queue, stops the worker, and closes the pub/sub channel.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	return p.pubsub.Close()
}

func (p *Publisher) run() {
	defer p.wg.Done()

	for ev := range p.queue {
		data, err := json.Marshal(ev)
		if err != nil {
			metrics.TelemetryEventsDropped.Inc()
			p.logger.Error().Err(err).Str("event", ev.Name).Msg("marshal telemetry event")
			continue
		}

		msg := message.NewMessage(watermill.NewUUID(), data)
		msg.Metadata.Set("event", ev.Name)

		if err := p.pubsub.Publish(Topic, msg); err != nil {
			metrics.TelemetryEventsDropped.Inc()
			p.logger.Error().Err(err).Str("event", ev.Name).Msg("publish telemetry event")
			continue
		}
		metrics.TelemetryEventsPublished.WithLabelValues(ev.Name).Inc()
	}
}

// DecodeEvent unmarshals a raw topic message back into an Event.
func DecodeEvent(msg *message.Message) (Event, error) {
	var ev Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return Event{}, fmt.Errorf("decode telemetry event: %w", err)
	}
	return ev, nil
}

// watermillLogger adapts zerolog to the watermill.LoggerAdapter interface.
type watermillLogger struct {
	logger zerolog.Logger
}

func (l watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

func (l watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (l watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (l watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (l watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillLogger{logger: l.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}
