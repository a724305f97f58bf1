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

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ehmo/sovi/pkg/models"
)

const (
	insertEventSQL = `
INSERT INTO system_events (
	timestamp,
	category,
	severity,
	event_type,
	device_id,
	account_id,
	message,
	context
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8
)
RETURNING id`

	selectEventsSQL = `
SELECT
	id,
	timestamp,
	category,
	severity,
	event_type,
	device_id,
	account_id,
	message,
	context,
	resolved,
	resolved_by,
	resolved_at
FROM system_events`

	resolveEventSQL = `
UPDATE system_events
SET resolved = true,
	resolved_by = $2,
	resolved_at = $3
WHERE id = $1`
)

// InsertEvent appends an event and returns its id.
func (p *Postgres) InsertEvent(ctx context.Context, event *models.Event) (int64, error) {
	if err := p.ready(); err != nil {
		return 0, err
	}

	if event == nil {
		return 0, ErrEventNil
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	contextJSON := []byte("{}")

	if len(event.Context) > 0 {
		encoded, err := json.Marshal(event.Context)
		if err != nil {
			return 0, fmt.Errorf("encode event context: %w", err)
		}

		contextJSON = encoded
	}

	var id int64
	if err := p.pool.QueryRow(ctx, insertEventSQL,
		ts,
		event.Category,
		string(event.Severity),
		event.EventType,
		event.DeviceID,
		event.AccountID,
		event.Message,
		contextJSON,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	return id, nil
}

// ListEvents returns events newest first, narrowed by filter.
func (p *Postgres) ListEvents(ctx context.Context, filter *models.EventFilter) ([]*models.Event, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	query, args := buildEventQuery(filter)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event

	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

func buildEventQuery(filter *models.EventFilter) (string, []interface{}) {
	if filter == nil {
		filter = &models.EventFilter{}
	}

	var (
		conditions []string
		args       []interface{}
	)

	add := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.Severity != "" {
		add("severity = ?", string(filter.Severity))
	}

	if filter.Category != "" {
		add("category = ?", filter.Category)
	}

	if filter.EventType != "" {
		add("event_type = ?", filter.EventType)
	}

	if filter.DeviceID != "" {
		add("device_id = ?", filter.DeviceID)
	}

	if filter.AccountID != "" {
		add("account_id = ?", filter.AccountID)
	}

	if filter.Resolved != nil {
		add("resolved = ?", *filter.Resolved)
	}

	if filter.AfterID > 0 {
		add("id > ?", filter.AfterID)
	}

	var b strings.Builder

	b.WriteString(selectEventsSQL)

	if len(conditions) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultEventLimit
	}

	args = append(args, limit)
	b.WriteString("\nORDER BY timestamp DESC, id DESC\nLIMIT $" + strconv.Itoa(len(args)))

	return b.String(), args
}

// ResolveEvent marks an event handled by an operator.
func (p *Postgres) ResolveEvent(ctx context.Context, id int64, resolvedBy string, at time.Time) error {
	if err := p.ready(); err != nil {
		return err
	}

	tag, err := p.pool.Exec(ctx, resolveEventSQL, id, nullableString(resolvedBy), at)
	if err != nil {
		return fmt.Errorf("resolve event: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", ErrEventNotFound, id)
	}

	return nil
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var (
		e          models.Event
		severity   string
		contextRaw []byte
	)

	if err := row.Scan(
		&e.ID,
		&e.Timestamp,
		&e.Category,
		&severity,
		&e.EventType,
		&e.DeviceID,
		&e.AccountID,
		&e.Message,
		&contextRaw,
		&e.Resolved,
		&e.ResolvedBy,
		&e.ResolvedAt,
	); err != nil {
		return nil, err
	}

	e.Severity = models.Severity(severity)

	if len(contextRaw) > 0 {
		if err := json.Unmarshal(contextRaw, &e.Context); err != nil {
			return nil, fmt.Errorf("decode event context: %w", err)
		}
	}

	return &e, nil
}
