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

// Package db holds the Postgres-backed ledgers the fleet scheduler coordinates through.
package db

import (
	"context"
	"time"

	"github.com/ehmo/sovi/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/ehmo/sovi/pkg/db AccountLedger,DeviceLedger,EventStore

// WarmClaimRequest asks for the highest-priority warm candidate.
type WarmClaimRequest struct {
	DeviceID  string
	Platforms []models.Platform
	// DayStart is local midnight of the current scheduler day.
	DayStart time.Time
	Now      time.Time
	TTL      time.Duration
}

// WarmCompletion records one fully completed warm-up session.
type WarmCompletion struct {
	AccountID        string
	DeviceID         string
	PreviousDayCount int
	DayStart         time.Time
	CompletedAt      time.Time
}

// AccountLedger is the persistent account store shared by all device loops.
type AccountLedger interface {
	// ClaimWarmCandidate atomically leases the best eligible account to DeviceID.
	// It returns nil, nil when nothing is eligible.
	ClaimWarmCandidate(ctx context.Context, req *WarmClaimRequest) (*models.Account, error)
	// CountAccountsByPlatform counts non-deleted accounts; every requested platform has an entry.
	CountAccountsByPlatform(ctx context.Context, platforms []models.Platform) (map[models.Platform]int, error)
	// CompleteWarmSession advances the day counter and state in one write and clears the claim.
	CompleteWarmSession(ctx context.Context, c *WarmCompletion) (*models.Account, error)
	// ReleaseClaim clears a claim held by deviceID without touching progress.
	ReleaseClaim(ctx context.Context, accountID, deviceID string) error
	InsertAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// DeviceLedger is the persistent device registry.
type DeviceLedger interface {
	ListActiveDevices(ctx context.Context) ([]*models.Device, error)
	ListDevices(ctx context.Context) ([]*models.Device, error)
	GetDevice(ctx context.Context, id string) (*models.Device, error)
	// RegisterDevice upserts by UDID and marks the device active.
	RegisterDevice(ctx context.Context, device *models.Device) (*models.Device, error)
	// Heartbeat marks the device active and stamps its heartbeat.
	Heartbeat(ctx context.Context, id string, at time.Time) error
	SetDeviceStatus(ctx context.Context, id string, status models.DeviceStatus, at time.Time) error
}

// EventStore is the append-only system event log.
type EventStore interface {
	InsertEvent(ctx context.Context, event *models.Event) (int64, error)
	ListEvents(ctx context.Context, filter *models.EventFilter) ([]*models.Event, error)
	ResolveEvent(ctx context.Context, id int64, resolvedBy string, at time.Time) error
}

// Service is every ledger the process needs behind one handle.
type Service interface {
	AccountLedger
	DeviceLedger
	EventStore
	Close() error
}
