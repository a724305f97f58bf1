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

package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ehmo/sovi/pkg/db"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

type capturePublisher struct {
	got []*models.Event
	err error
}

func (c *capturePublisher) PublishEvent(_ context.Context, event *models.Event) error {
	c.got = append(c.got, event)
	return c.err
}

func TestEmitPersistsAndPublishes(t *testing.T) {
	store := db.NewMemory()
	pub := &capturePublisher{}
	e := NewEmitter(store, pub, logger.NewTestLogger())

	id := e.Emit(context.Background(), models.EventCategoryDevice, models.SeverityCritical,
		models.EventDeviceDisconnected, "WDA not responding on iPhone A",
		WithDevice("device-1"),
		WithContext(map[string]interface{}{"wda_port": 8100}),
	)
	require.NotZero(t, id)

	stored, err := store.ListEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "device-1", *stored[0].DeviceID)
	assert.Nil(t, stored[0].AccountID)
	assert.Equal(t, 8100, stored[0].Context["wda_port"])

	require.Len(t, pub.got, 1)
	assert.Equal(t, id, pub.got[0].ID)
}

func TestEmitSurvivesStoreAndPublishFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := db.NewMockEventStore(ctrl)
	store.EXPECT().InsertEvent(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection refused"))

	pub := &capturePublisher{err: errors.New("nats down")}
	e := NewEmitter(store, pub, logger.NewTestLogger())

	id := e.Emit(context.Background(), models.EventCategoryScheduler, models.SeverityInfo,
		models.EventSchedulerStarted, "started")
	assert.Zero(t, id)
	assert.Len(t, pub.got, 1)
}

func TestEmitAfterCancelStillWrites(t *testing.T) {
	store := db.NewMemory()
	e := NewEmitter(store, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	id := e.Emit(ctx, models.EventCategoryScheduler, models.SeverityInfo, models.EventSchedulerStopped, "stopped",
		WithAccount(""))
	require.NotZero(t, id)

	stored, err := store.ListEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Nil(t, stored[0].AccountID)
}
