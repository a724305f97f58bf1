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
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ehmo/sovi/pkg/models"
)

// Memory is an in-process Service. All claims run under one mutex, which gives
// the same exclusion the row lock gives in Postgres.
type Memory struct {
	mu          sync.Mutex
	accounts    map[string]*models.Account
	devices     map[string]*models.Device
	events      []*models.Event
	nextEventID int64
}

var _ Service = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		accounts:    make(map[string]*models.Account),
		devices:     make(map[string]*models.Device),
		events:      make([]*models.Event, 0, 64),
		nextEventID: 1,
	}
}

func (*Memory) Close() error { return nil }

// ClaimWarmCandidate applies the same eligibility and ordering as the SQL claim.
func (m *Memory) ClaimWarmCandidate(_ context.Context, req *WarmClaimRequest) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := make(map[models.Platform]bool, len(req.Platforms))
	for _, p := range req.Platforms {
		allowed[p] = true
	}

	var candidates []*models.Account

	for _, a := range m.accounts {
		if a.DeletedAt != nil || !allowed[a.Platform] || !a.CurrentState.Warmable() {
			continue
		}

		if a.WarmedSince(req.DayStart) {
			continue
		}

		if a.ClaimedBy != nil && a.ClaimExpiresAt != nil && !a.ClaimExpiresAt.Before(req.Now) {
			continue
		}

		candidates = append(candidates, a)
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return warmsBefore(candidates[i], candidates[j])
	})

	chosen := candidates[0]
	owner := req.DeviceID
	expires := req.Now.Add(req.TTL)
	chosen.ClaimedBy = &owner
	chosen.ClaimExpiresAt = &expires
	chosen.UpdatedAt = req.Now

	return chosen.Clone(), nil
}

// warmsBefore orders by state rank, then never-warmed first, then oldest warm, then id.
func warmsBefore(a, b *models.Account) bool {
	if ra, rb := a.CurrentState.Rank(), b.CurrentState.Rank(); ra != rb {
		return ra < rb
	}

	switch {
	case a.LastWarmedAt == nil && b.LastWarmedAt != nil:
		return true
	case a.LastWarmedAt != nil && b.LastWarmedAt == nil:
		return false
	case a.LastWarmedAt != nil && !a.LastWarmedAt.Equal(*b.LastWarmedAt):
		return a.LastWarmedAt.Before(*b.LastWarmedAt)
	}

	return a.ID < b.ID
}

func (m *Memory) CountAccountsByPlatform(_ context.Context, platforms []models.Platform) (map[models.Platform]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[models.Platform]int, len(platforms))
	for _, p := range platforms {
		counts[p] = 0
	}

	for _, a := range m.accounts {
		if a.DeletedAt != nil {
			continue
		}

		if _, ok := counts[a.Platform]; ok {
			counts[a.Platform]++
		}
	}

	return counts, nil
}

func (m *Memory) CompleteWarmSession(_ context.Context, c *WarmCompletion) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[c.AccountID]
	if !ok || a.DeletedAt != nil ||
		a.ClaimedBy == nil || *a.ClaimedBy != c.DeviceID ||
		a.WarmingDayCount != c.PreviousDayCount ||
		a.WarmedSince(c.DayStart) {
		return nil, fmt.Errorf("%w: account %s", ErrClaimLost, c.AccountID)
	}

	completed := c.CompletedAt
	a.WarmingDayCount = c.PreviousDayCount + 1
	a.CurrentState = models.StateForDay(a.WarmingDayCount)
	a.LastWarmedAt = &completed
	activity := completed
	a.LastActivityAt = &activity
	a.ClaimedBy = nil
	a.ClaimExpiresAt = nil
	a.UpdatedAt = completed

	return a.Clone(), nil
}

func (m *Memory) ReleaseClaim(_ context.Context, accountID, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[accountID]
	if !ok || a.ClaimedBy == nil || *a.ClaimedBy != deviceID {
		return nil
	}

	a.ClaimedBy = nil
	a.ClaimExpiresAt = nil
	a.UpdatedAt = time.Now().UTC()

	return nil
}

func (m *Memory) InsertAccount(_ context.Context, account *models.Account) (*models.Account, error) {
	if account == nil || account.Username == "" || !account.Platform.Valid() {
		return nil, ErrAccountRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := account.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	if stored.CurrentState == "" {
		stored.CurrentState = models.AccountStateCreated
	}

	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	stored.UpdatedAt = stored.CreatedAt
	m.accounts[stored.ID] = stored

	return stored.Clone(), nil
}

func (m *Memory) GetAccount(_ context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}

	return a.Clone(), nil
}

func (m *Memory) ListDevices(_ context.Context) ([]*models.Device, error) {
	return m.listDevices(func(*models.Device) bool { return true }), nil
}

func (m *Memory) ListActiveDevices(_ context.Context) ([]*models.Device, error) {
	return m.listDevices(func(d *models.Device) bool { return d.Status == models.DeviceStatusActive }), nil
}

func (m *Memory) listDevices(keep func(*models.Device) bool) []*models.Device {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Device, 0, len(m.devices))

	for _, d := range m.devices {
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].UDID < out[j].UDID
	})

	return out
}

func (m *Memory) GetDevice(_ context.Context, id string) (*models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	cp := *d

	return &cp, nil
}

func (m *Memory) RegisterDevice(_ context.Context, device *models.Device) (*models.Device, error) {
	if device == nil || device.UDID == "" {
		return nil, ErrDeviceUDIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()

	var stored *models.Device

	for _, d := range m.devices {
		if d.UDID == device.UDID {
			stored = d
			break
		}
	}

	if stored == nil {
		stored = &models.Device{ID: device.ID, UDID: device.UDID, CreatedAt: now}
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}

		m.devices[stored.ID] = stored
	}

	stored.Name = device.Name
	stored.Model = device.Model
	stored.OSVersion = device.OSVersion
	stored.WDAPort = device.Port()
	stored.Status = models.DeviceStatusActive
	stored.ConnectedSince = &now
	stored.UpdatedAt = now

	cp := *stored

	return &cp, nil
}

func (m *Memory) Heartbeat(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[id]
	if !ok {
		return fmt.Errorf("heartbeat: %w: %s", ErrDeviceNotFound, id)
	}

	d.Status = models.DeviceStatusActive
	d.LastHeartbeatAt = &at
	d.UpdatedAt = at

	return nil
}

func (m *Memory) SetDeviceStatus(_ context.Context, id string, status models.DeviceStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[id]
	if !ok {
		return fmt.Errorf("set device status: %w: %s", ErrDeviceNotFound, id)
	}

	d.Status = status
	d.UpdatedAt = at

	return nil
}

func (m *Memory) InsertEvent(_ context.Context, event *models.Event) (int64, error) {
	if event == nil {
		return 0, ErrEventNil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *event
	stored.ID = m.nextEventID
	m.nextEventID++

	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	m.events = append(m.events, &stored)

	return stored.ID, nil
}

func (m *Memory) ListEvents(_ context.Context, filter *models.EventFilter) ([]*models.Event, error) {
	if filter == nil {
		filter = &models.EventFilter{}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultEventLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Event

	// newest first; ids grow with insertion order
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.events[i]
		if !eventMatches(e, filter) {
			continue
		}

		cp := *e
		out = append(out, &cp)
	}

	return out, nil
}

func eventMatches(e *models.Event, f *models.EventFilter) bool {
	switch {
	case f.Severity != "" && e.Severity != f.Severity,
		f.Category != "" && e.Category != f.Category,
		f.EventType != "" && e.EventType != f.EventType,
		f.DeviceID != "" && derefString(e.DeviceID) != f.DeviceID,
		f.AccountID != "" && derefString(e.AccountID) != f.AccountID,
		f.Resolved != nil && e.Resolved != *f.Resolved,
		f.AfterID > 0 && e.ID <= f.AfterID:
		return false
	}

	return true
}

func (m *Memory) ResolveEvent(_ context.Context, id int64, resolvedBy string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.events {
		if e.ID != id {
			continue
		}

		e.Resolved = true
		e.ResolvedBy = nullableString(resolvedBy)
		e.ResolvedAt = &at

		return nil
	}

	return fmt.Errorf("%w: %d", ErrEventNotFound, id)
}
