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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmo/sovi/pkg/models"
)

var testDayStart = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func claimReq(device string) *WarmClaimRequest {
	return &WarmClaimRequest{
		DeviceID:  device,
		Platforms: []models.Platform{models.PlatformTikTok, models.PlatformInstagram},
		DayStart:  testDayStart,
		Now:       testDayStart.Add(9 * time.Hour),
		TTL:       2 * time.Hour,
	}
}

func seedAccount(t *testing.T, m *Memory, a *models.Account) *models.Account {
	t.Helper()

	stored, err := m.InsertAccount(context.Background(), a)
	require.NoError(t, err)

	return stored
}

func TestMemoryClaimOrdersByStateThenLastWarmed(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	older := testDayStart.Add(-72 * time.Hour)
	newer := testDayStart.Add(-24 * time.Hour)

	active := seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "active",
		CurrentState: models.AccountStateActive, WarmingDayCount: 20, LastWarmedAt: &older})
	p2new := seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "p2new",
		CurrentState: models.AccountStateWarmingP2, WarmingDayCount: 5, LastWarmedAt: &newer})
	p2old := seedAccount(t, m, &models.Account{Platform: models.PlatformInstagram, Username: "p2old",
		CurrentState: models.AccountStateWarmingP2, WarmingDayCount: 4, LastWarmedAt: &older})
	p2never := seedAccount(t, m, &models.Account{Platform: models.PlatformInstagram, Username: "p2never",
		CurrentState: models.AccountStateWarmingP2, WarmingDayCount: 4})

	var order []string

	for i := 0; i < 4; i++ {
		got, err := m.ClaimWarmCandidate(ctx, claimReq("device-1"))
		require.NoError(t, err)
		require.NotNil(t, got)
		order = append(order, got.ID)
	}

	assert.Equal(t, []string{p2never.ID, p2old.ID, p2new.ID, active.ID}, order)

	got, err := m.ClaimWarmCandidate(ctx, claimReq("device-1"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryClaimSkipsIneligible(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	warmedToday := testDayStart.Add(time.Hour)
	deleted := testDayStart.Add(-time.Hour)

	seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "today",
		CurrentState: models.AccountStateWarmingP1, LastWarmedAt: &warmedToday})
	seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "banned",
		CurrentState: models.AccountStateBanned})
	seedAccount(t, m, &models.Account{Platform: models.PlatformReddit, Username: "reddit"})
	seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "gone", DeletedAt: &deleted})

	got, err := m.ClaimWarmCandidate(ctx, claimReq("device-1"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryClaimMutualExclusion(t *testing.T) {
	m := NewMemory()
	only := seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "only"})

	const claimants = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)

	for i := 0; i < claimants; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			got, err := m.ClaimWarmCandidate(context.Background(), claimReq("device-"+string(rune('a'+i))))
			assert.NoError(t, err)

			if got != nil {
				mu.Lock()
				winners = append(winners, got.ID)
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, []string{only.ID}, winners)
}

func TestMemoryExpiredClaimIsReclaimable(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "lease"})

	first, err := m.ClaimWarmCandidate(ctx, claimReq("device-1"))
	require.NoError(t, err)
	require.NotNil(t, first)

	later := claimReq("device-2")
	later.Now = later.Now.Add(3 * time.Hour)

	second, err := m.ClaimWarmCandidate(ctx, later)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "device-2", *second.ClaimedBy)

	// the original holder can no longer complete
	_, err = m.CompleteWarmSession(ctx, &WarmCompletion{
		AccountID: first.ID, DeviceID: "device-1", DayStart: testDayStart, CompletedAt: later.Now,
	})
	require.ErrorIs(t, err, ErrClaimLost)
}

func TestMemoryCompleteWarmSessionAdvancesOnce(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seeded := seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "day0"})

	claimed, err := m.ClaimWarmCandidate(ctx, claimReq("device-1"))
	require.NoError(t, err)
	require.Equal(t, seeded.ID, claimed.ID)

	done := testDayStart.Add(10 * time.Hour)
	completion := &WarmCompletion{
		AccountID:        claimed.ID,
		DeviceID:         "device-1",
		PreviousDayCount: claimed.WarmingDayCount,
		DayStart:         testDayStart,
		CompletedAt:      done,
	}

	updated, err := m.CompleteWarmSession(ctx, completion)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.WarmingDayCount)
	assert.Equal(t, models.AccountStateWarmingP1, updated.CurrentState)
	assert.Equal(t, done, *updated.LastWarmedAt)
	assert.Nil(t, updated.ClaimedBy)

	_, err = m.CompleteWarmSession(ctx, completion)
	require.ErrorIs(t, err, ErrClaimLost)

	stored, err := m.GetAccount(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.WarmingDayCount)
}

func TestMemoryReleaseClaimLeavesProgress(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "r", WarmingDayCount: 3,
		CurrentState: models.AccountStateWarmingP1})

	claimed, err := m.ClaimWarmCandidate(ctx, claimReq("device-1"))
	require.NoError(t, err)

	require.NoError(t, m.ReleaseClaim(ctx, claimed.ID, "device-other"))

	still, err := m.GetAccount(ctx, claimed.ID)
	require.NoError(t, err)
	require.NotNil(t, still.ClaimedBy)

	require.NoError(t, m.ReleaseClaim(ctx, claimed.ID, "device-1"))

	after, err := m.GetAccount(ctx, claimed.ID)
	require.NoError(t, err)
	assert.Nil(t, after.ClaimedBy)
	assert.Equal(t, 3, after.WarmingDayCount)
	assert.Equal(t, models.AccountStateWarmingP1, after.CurrentState)
	assert.Nil(t, after.LastWarmedAt)
}

func TestMemoryCountAccountsByPlatform(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	deleted := time.Now()

	seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "a"})
	seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "b"})
	seedAccount(t, m, &models.Account{Platform: models.PlatformTikTok, Username: "c", DeletedAt: &deleted})
	seedAccount(t, m, &models.Account{Platform: models.PlatformReddit, Username: "d"})

	counts, err := m.CountAccountsByPlatform(ctx, []models.Platform{models.PlatformTikTok, models.PlatformInstagram})
	require.NoError(t, err)
	assert.Equal(t, map[models.Platform]int{models.PlatformTikTok: 2, models.PlatformInstagram: 0}, counts)
}

func TestMemoryDevices(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.RegisterDevice(ctx, &models.Device{Name: "x"})
	require.ErrorIs(t, err, ErrDeviceUDIDRequired)

	first, err := m.RegisterDevice(ctx, &models.Device{Name: "iPhone A", UDID: "udid-a"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWDAPort, first.WDAPort)

	again, err := m.RegisterDevice(ctx, &models.Device{Name: "iPhone A2", UDID: "udid-a", WDAPort: 8101})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 8101, again.WDAPort)

	second, err := m.RegisterDevice(ctx, &models.Device{Name: "iPhone B", UDID: "udid-b"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, m.SetDeviceStatus(ctx, second.ID, models.DeviceStatusDisconnected, now))

	active, err := m.ListActiveDevices(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "iPhone A2", active[0].Name)

	require.NoError(t, m.Heartbeat(ctx, second.ID, now))

	got, err := m.GetDevice(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusActive, got.Status)
	assert.Equal(t, now, *got.LastHeartbeatAt)

	require.ErrorIs(t, m.Heartbeat(ctx, "missing", now), ErrDeviceNotFound)
}

func TestMemoryEvents(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	device := "device-1"

	_, err := m.InsertEvent(ctx, nil)
	require.ErrorIs(t, err, ErrEventNil)

	for _, e := range []*models.Event{
		{Category: models.EventCategoryScheduler, Severity: models.SeverityInfo, EventType: models.EventSchedulerStarted},
		{Category: models.EventCategoryDevice, Severity: models.SeverityCritical, EventType: models.EventDeviceDisconnected, DeviceID: &device},
		{Category: models.EventCategoryAccount, Severity: models.SeverityError, EventType: models.EventLoginFailed},
	} {
		_, err := m.InsertEvent(ctx, e)
		require.NoError(t, err)
	}

	all, err := m.ListEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.EventLoginFailed, all[0].EventType)

	critical, err := m.ListEvents(ctx, &models.EventFilter{Severity: models.SeverityCritical})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, device, *critical[0].DeviceID)

	require.NoError(t, m.ResolveEvent(ctx, critical[0].ID, "operator", time.Now()))
	require.ErrorIs(t, m.ResolveEvent(ctx, 999, "operator", time.Now()), ErrEventNotFound)

	unresolved := false

	open, err := m.ListEvents(ctx, &models.EventFilter{Resolved: &unresolved, Limit: 1})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, models.EventLoginFailed, open[0].EventType)

	after, err := m.ListEvents(ctx, &models.EventFilter{AfterID: 2})
	require.NoError(t, err)
	require.Len(t, after, 1)
}
