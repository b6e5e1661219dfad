// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package services

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/nachoweb3/readnext/internal/telemetry"
)

// EventSource delivers telemetry events. Satisfied by *telemetry.Publisher.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// EventLogService consumes the telemetry stream and writes each event to the
// structured log. It is the in-process stand-in for an external analytics
// sink and keeps the pipeline drained.
type EventLogService struct {
	source EventSource
	logger zerolog.Logger
}

// NewEventLogService creates the event log consumer.
func NewEventLogService(source EventSource, logger zerolog.Logger) *EventLogService {
	return &EventLogService{
		source: source,
		logger: logger.With().Str("service", "eventlog").Logger(),
	}
}

// Serve implements suture.Service.
func (s *EventLogService) Serve(ctx context.Context) error {
	messages, err := s.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	s.logger.Info().Msg("event log consumer started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("event log consumer stopped")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				s.logger.Info().Msg("event stream closed")
				return nil
			}
			s.handle(msg)
		}
	}
}

func (s *EventLogService) handle(msg *message.Message) {
	// Always ack: a malformed event is logged and skipped, never redelivered.
	defer msg.Ack()

	event, err := telemetry.DecodeEvent(msg)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("undecodable telemetry event")
		return
	}

	s.logger.Info().
		Str("event", event.Name).
		Time("at", event.At).
		Interface("payload", event.Payload).
		Msg("telemetry event")
}

// String implements fmt.Stringer for supervisor event logs.
func (s *EventLogService) String() string {
	return "event-log"
}
