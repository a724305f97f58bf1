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
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

// newIntegrationPostgres connects to SOVI_TEST_DATABASE_URL, migrates, and
// truncates the ledgers. The test is skipped when the variable is unset.
func newIntegrationPostgres(t *testing.T) *Postgres {
	t.Helper()

	dsn := os.Getenv("SOVI_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SOVI_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	_, err = RunMigrations(ctx, pool, logger.NewTestLogger())
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE system_events, accounts, devices`)
	require.NoError(t, err)

	pg := NewPostgres(pool, logger.NewTestLogger())
	t.Cleanup(func() { _ = pg.Close() })

	return pg
}

func TestPostgresClaimMutualExclusion(t *testing.T) {
	pg := newIntegrationPostgres(t)
	ctx := context.Background()

	only, err := pg.InsertAccount(ctx, &models.Account{Platform: models.PlatformTikTok, Username: "only"})
	require.NoError(t, err)

	now := time.Now().UTC()
	dayStart := now.Truncate(24 * time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			got, err := pg.ClaimWarmCandidate(ctx, &WarmClaimRequest{
				DeviceID:  uuid.NewString(),
				Platforms: []models.Platform{models.PlatformTikTok},
				DayStart:  dayStart,
				Now:       now,
				TTL:       time.Hour,
			})
			assert.NoError(t, err)

			if got != nil {
				mu.Lock()
				winners = append(winners, got.ID)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, []string{only.ID}, winners)
}

func TestPostgresCompleteAndRelease(t *testing.T) {
	pg := newIntegrationPostgres(t)
	ctx := context.Background()

	device, err := pg.RegisterDevice(ctx, &models.Device{Name: "iPhone", UDID: "udid-int"})
	require.NoError(t, err)

	_, err = pg.InsertAccount(ctx, &models.Account{Platform: models.PlatformInstagram, Username: "p3",
		CurrentState: models.AccountStateWarmingP3, WarmingDayCount: 14})
	require.NoError(t, err)

	now := time.Now().UTC()
	dayStart := now.Truncate(24 * time.Hour)
	req := &WarmClaimRequest{
		DeviceID:  device.ID,
		Platforms: []models.Platform{models.PlatformInstagram},
		DayStart:  dayStart,
		Now:       now,
		TTL:       time.Hour,
	}

	claimed, err := pg.ClaimWarmCandidate(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, claimed)

	require.NoError(t, pg.ReleaseClaim(ctx, claimed.ID, device.ID))

	claimed, err = pg.ClaimWarmCandidate(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, claimed)

	updated, err := pg.CompleteWarmSession(ctx, &WarmCompletion{
		AccountID:        claimed.ID,
		DeviceID:         device.ID,
		PreviousDayCount: claimed.WarmingDayCount,
		DayStart:         dayStart,
		CompletedAt:      now,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.WarmingDayCount)
	assert.Equal(t, models.AccountStateActive, updated.CurrentState)

	_, err = pg.CompleteWarmSession(ctx, &WarmCompletion{
		AccountID:        claimed.ID,
		DeviceID:         device.ID,
		PreviousDayCount: claimed.WarmingDayCount,
		DayStart:         dayStart,
		CompletedAt:      now,
	})
	require.ErrorIs(t, err, ErrClaimLost)

	again, err := pg.ClaimWarmCandidate(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestPostgresDevicesAndEvents(t *testing.T) {
	pg := newIntegrationPostgres(t)
	ctx := context.Background()

	device, err := pg.RegisterDevice(ctx, &models.Device{Name: "A", UDID: "udid-a", WDAPort: 8101})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, pg.SetDeviceStatus(ctx, device.ID, models.DeviceStatusDisconnected, now))

	active, err := pg.ListActiveDevices(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, pg.Heartbeat(ctx, device.ID, now))

	active, err = pg.ListActiveDevices(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 8101, active[0].WDAPort)

	id, err := pg.InsertEvent(ctx, &models.Event{
		Category:  models.EventCategoryDevice,
		Severity:  models.SeverityCritical,
		EventType: models.EventDeviceDisconnected,
		DeviceID:  &device.ID,
		Message:   "WDA not responding",
		Context:   map[string]interface{}{"wda_port": 8101},
	})
	require.NoError(t, err)

	events, err := pg.ListEvents(ctx, &models.EventFilter{DeviceID: device.ID})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.InDelta(t, 8101, events[0].Context["wda_port"], 0)

	require.NoError(t, pg.ResolveEvent(ctx, id, "operator", now))
	require.ErrorIs(t, pg.ResolveEvent(ctx, id+1000, "operator", now), ErrEventNotFound)
}
