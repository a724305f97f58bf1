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

// Package events writes the structured system event log.
package events

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehmo/sovi/pkg/db"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

const persistTimeout = 5 * time.Second

// Publisher fans events out beyond the database.
type Publisher interface {
	PublishEvent(ctx context.Context, event *models.Event) error
}

// Option decorates an event before it is written.
type Option func(*models.Event)

// WithDevice attaches a device reference.
func WithDevice(id string) Option {
	return func(e *models.Event) {
		if id != "" {
			e.DeviceID = &id
		}
	}
}

// WithAccount attaches an account reference.
func WithAccount(id string) Option {
	return func(e *models.Event) {
		if id != "" {
			e.AccountID = &id
		}
	}
}

// WithContext merges structured context into the event.
func WithContext(kv map[string]interface{}) Option {
	return func(e *models.Event) {
		if len(kv) == 0 {
			return
		}

		if e.Context == nil {
			e.Context = make(map[string]interface{}, len(kv))
		}

		for k, v := range kv {
			e.Context[k] = v
		}
	}
}

// Emitter persists, logs, and optionally publishes events. Emitting never
// fails the caller: storage and publish errors are logged and swallowed.
type Emitter struct {
	store     db.EventStore
	publisher Publisher
	log       logger.Logger
	now       func() time.Time
}

// NewEmitter builds an Emitter. store and publisher may be nil.
func NewEmitter(store db.EventStore, publisher Publisher, log logger.Logger) *Emitter {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Emitter{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Emit records one event and returns its id, or 0 when it could not be stored.
// Writes are detached from ctx cancellation so shutdown events still land.
func (e *Emitter) Emit(
	ctx context.Context, category string, severity models.Severity, eventType, message string, opts ...Option,
) int64 {
	event := &models.Event{
		Timestamp: e.now(),
		Category:  category,
		Severity:  severity,
		EventType: eventType,
		Message:   message,
	}

	for _, opt := range opts {
		opt(event)
	}

	e.logEvent(event)

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if e.store != nil {
		id, err := e.store.InsertEvent(writeCtx, event)
		if err != nil {
			e.log.Warn().Err(err).
				Str("category", category).
				Str("event_type", eventType).
				Msg("Failed to persist event")
		} else {
			event.ID = id
		}
	}

	if e.publisher != nil {
		if err := e.publisher.PublishEvent(writeCtx, event); err != nil {
			e.log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish event")
		}
	}

	return event.ID
}

func (e *Emitter) logEvent(event *models.Event) {
	var entry *zerolog.Event

	switch event.Severity {
	case models.SeverityCritical, models.SeverityError:
		entry = e.log.Error()
	case models.SeverityWarning:
		entry = e.log.Warn()
	case models.SeverityInfo:
		entry = e.log.Info()
	default:
		entry = e.log.Info()
	}

	entry = entry.
		Str("category", event.Category).
		Str("severity", string(event.Severity)).
		Str("event_type", event.EventType)

	if event.DeviceID != nil {
		entry = entry.Str("device_id", *event.DeviceID)
	}

	if event.AccountID != nil {
		entry = entry.Str("account_id", *event.AccountID)
	}

	entry.Msg(event.Message)
}
