/*
 * Copyright 2026 The Sovi Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package natsutil publishes fleet events to NATS JetStream as CloudEvents.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

const (
	cloudEventSource = "sovi/scheduler"
	cloudEventPrefix = "com.sovi.fleet."
)

var errEventNil = errors.New("event is nil")

// JetStreamPublisher is the part of jetstream.JetStream the publisher needs.
type JetStreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EventPublisher publishes system events as CloudEvents.
type EventPublisher struct {
	js            JetStreamPublisher
	stream        string
	subjectPrefix string
	log           logger.Logger
}

// NewEventPublisher creates a publisher writing under subjectPrefix.
func NewEventPublisher(js JetStreamPublisher, stream, subjectPrefix string, log logger.Logger) *EventPublisher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &EventPublisher{
		js:            js,
		stream:        stream,
		subjectPrefix: strings.TrimSuffix(subjectPrefix, "."),
		log:           log,
	}
}

// SubjectFor returns <prefix>.<category>.<event_type>.
func (p *EventPublisher) SubjectFor(event *models.Event) string {
	return fmt.Sprintf("%s.%s.%s", p.subjectPrefix, event.Category, event.EventType)
}

// PublishEvent wraps event in a CloudEvent and publishes it.
func (p *EventPublisher) PublishEvent(ctx context.Context, event *models.Event) error {
	if event == nil {
		return errEventNil
	}

	ts := event.Timestamp
	subject := p.SubjectFor(event)

	envelope := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          cloudEventSource,
		Type:            cloudEventPrefix + event.Category + "." + event.EventType,
		DataContentType: "application/json",
		Subject:         subject,
		Time:            &ts,
		Data:            event,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType, err)
	}

	ack, err := p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}

	p.log.Debug().
		Str("event_id", envelope.ID).
		Str("subject", subject).
		Uint64("seq", ack.Sequence).
		Msg("Published event")

	return nil
}

// Connect dials NATS, ensures the stream exists, and returns a publisher.
// The caller owns the returned connection.
func Connect(ctx context.Context, cfg *models.NATSConfig, log logger.Logger) (*EventPublisher, *nats.Conn, error) {
	if log == nil {
		log = logger.NewTestLogger()
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("sovi-scheduler"),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Warn().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	var js jetstream.JetStream

	if cfg.Domain != "" {
		js, err = jetstream.NewWithDomain(nc, cfg.Domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	subject := strings.TrimSuffix(cfg.SubjectPrefix, ".") + ".>"

	if err := ensureStream(ctx, js, cfg.Stream, subject); err != nil {
		nc.Close()
		return nil, nil, err
	}

	return NewEventPublisher(js, cfg.Stream, cfg.SubjectPrefix, log), nc, nil
}

func ensureStream(ctx context.Context, js jetstream.JetStream, name, subject string) error {
	stream, err := js.Stream(ctx, name)
	if err == nil {
		info, infoErr := stream.Info(ctx)
		if infoErr != nil {
			return fmt.Errorf("failed to read stream %s: %w", name, infoErr)
		}

		subjects := ensureSubjectList(info.Config.Subjects, subject)
		if len(subjects) == len(info.Config.Subjects) {
			return nil
		}

		cfg := info.Config
		cfg.Subjects = subjects

		if _, err := js.UpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("failed to update stream %s: %w", name, err)
		}

		return nil
	}

	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}

	if _, err := js.CreateStream(ctx, jetstream.StreamConfig{Name: name, Subjects: []string{subject}}); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}

	return nil
}

// ensureSubjectList appends subject unless an existing pattern already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, existing := range subjects {
		if matchesSubject(existing, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject reports whether pattern covers subject using NATS wildcards.
// A ">" subject is only covered by a pattern ending in ">" at the same depth or earlier.
func matchesSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")

	for i, tok := range pt {
		if tok == ">" {
			return i < len(st)
		}

		if i >= len(st) {
			return false
		}

		if st[i] == ">" {
			return false
		}

		if tok != "*" && tok != st[i] {
			return false
		}
	}

	return len(pt) == len(st)
}
