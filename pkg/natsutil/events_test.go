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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmo/sovi/pkg/models"
)

type recordingJS struct {
	subject string
	payload []byte
	err     error
}

func (r *recordingJS) Publish(_ context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if r.err != nil {
		return nil, r.err
	}

	r.subject = subject
	r.payload = payload

	return &jetstream.PubAck{Stream: "sovi-events", Sequence: 42}, nil
}

func TestPublishEventWrapsCloudEvent(t *testing.T) {
	t.Parallel()

	js := &recordingJS{}
	pub := NewEventPublisher(js, "sovi-events", "sovi.events.", nil)
	device := "device-1"

	event := &models.Event{
		Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Category:  models.EventCategoryDevice,
		Severity:  models.SeverityCritical,
		EventType: models.EventDeviceDisconnected,
		DeviceID:  &device,
		Message:   "WDA not responding on iPhone A",
	}

	require.NoError(t, pub.PublishEvent(context.Background(), event))
	assert.Equal(t, "sovi.events.device.device_disconnected", js.subject)

	var envelope struct {
		SpecVersion string       `json:"specversion"`
		ID          string       `json:"id"`
		Type        string       `json:"type"`
		Subject     string       `json:"subject"`
		Data        models.Event `json:"data"`
	}

	require.NoError(t, json.Unmarshal(js.payload, &envelope))
	assert.Equal(t, "1.0", envelope.SpecVersion)
	assert.NotEmpty(t, envelope.ID)
	assert.Equal(t, "com.sovi.fleet.device.device_disconnected", envelope.Type)
	assert.Equal(t, js.subject, envelope.Subject)
	assert.Equal(t, models.SeverityCritical, envelope.Data.Severity)
	assert.Equal(t, device, *envelope.Data.DeviceID)
}

func TestPublishEventErrors(t *testing.T) {
	t.Parallel()

	pub := NewEventPublisher(&recordingJS{err: errors.New("no responders")}, "s", "sovi.events", nil)

	require.Error(t, pub.PublishEvent(context.Background(), &models.Event{Category: "scheduler", EventType: "x"}))
	require.ErrorIs(t, pub.PublishEvent(context.Background(), nil), errEventNil)
}

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		subject  string
		want     []string
	}{
		{"adds subject when list empty", nil, "sovi.events.>", []string{"sovi.events.>"}},
		{"keeps list when wildcard covers", []string{"sovi.>"}, "sovi.events.>", []string{"sovi.>"}},
		{"single token wildcard does not cover tail", []string{"sovi.*"}, "sovi.events.>", []string{"sovi.*", "sovi.events.>"}},
		{"appends when unmatched", []string{"logs.*"}, "sovi.events.>", []string{"logs.*", "sovi.events.>"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ensureSubjectList(append([]string(nil), tc.subjects...), tc.subject))
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	assert.True(t, matchesSubject("sovi.events.device.device_disconnected", "sovi.events.device.device_disconnected"))
	assert.True(t, matchesSubject("sovi.events.*.warming_complete", "sovi.events.account.warming_complete"))
	assert.True(t, matchesSubject("sovi.events.>", "sovi.events.account.warming_complete"))
	assert.False(t, matchesSubject("sovi.events", "sovi.events.account"))
	assert.False(t, matchesSubject("sovi.events.*", "sovi.events.account.warming_complete"))
}
