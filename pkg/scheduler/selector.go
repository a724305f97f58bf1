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

package scheduler

import (
	"context"
	"time"

	"github.com/ehmo/sovi/pkg/db"
	"github.com/ehmo/sovi/pkg/events"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

const (
	selectionWarm    = "warm"
	selectionCreate  = "create"
	selectionNone    = "none"
	selectionFailure = "error"
)

// Selector decides what a device should do next. Concurrent selectors never
// receive the same account: the warm claim is a lease taken atomically in the ledger.
type Selector struct {
	accounts        db.AccountLedger
	emitter         *events.Emitter
	platforms       []models.Platform
	defaultPlatform models.Platform
	accountTarget   int
	claimTTL        time.Duration
	loc             *time.Location
	clock           Clock
	logger          logger.Logger
}

// NewSelector builds a Selector from the scheduler config.
func NewSelector(
	cfg *models.SchedulerConfig, accounts db.AccountLedger, emitter *events.Emitter, clock Clock, log logger.Logger,
) *Selector {
	if clock == nil {
		clock = realClock{}
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Selector{
		accounts:        accounts,
		emitter:         emitter,
		platforms:       append([]models.Platform(nil), cfg.Platforms...),
		defaultPlatform: cfg.DefaultPlatform,
		accountTarget:   cfg.AccountTargetPerPlatform,
		claimTTL:        time.Duration(cfg.ClaimTTL),
		loc:             cfg.Location(),
		clock:           clock,
		logger:          log,
	}
}

// Select returns the next task for deviceID, or nil when there is nothing to
// do or the ledger could not be read. It never returns an error.
func (s *Selector) Select(ctx context.Context, deviceID string) *models.Task {
	now := s.clock.Now()

	account, err := s.accounts.ClaimWarmCandidate(ctx, &db.WarmClaimRequest{
		DeviceID:  deviceID,
		Platforms: s.platforms,
		DayStart:  DayStart(now, s.loc),
		Now:       now,
		TTL:       s.claimTTL,
	})
	if err != nil {
		s.selectionFailed(ctx, deviceID, "claim_warm_candidate", err)
		return nil
	}

	if account != nil {
		recordSelection(ctx, selectionWarm)

		return models.NewWarmTask(account)
	}

	counts, err := s.accounts.CountAccountsByPlatform(ctx, s.platforms)
	if err != nil {
		s.selectionFailed(ctx, deviceID, "count_accounts", err)
		return nil
	}

	platform, count := s.leastPopulated(counts)

	if s.accountTarget > 0 && count >= s.accountTarget {
		recordSelection(ctx, selectionNone)

		return nil
	}

	recordSelection(ctx, selectionCreate)

	return models.NewCreateTask(platform)
}

// leastPopulated picks the platform with the fewest accounts, ties going to the default.
func (s *Selector) leastPopulated(counts map[models.Platform]int) (models.Platform, int) {
	best := s.defaultPlatform
	bestCount := counts[best]

	for _, p := range s.platforms {
		if n := counts[p]; n < bestCount {
			best, bestCount = p, n
		}
	}

	return best, bestCount
}

func (s *Selector) selectionFailed(ctx context.Context, deviceID, step string, err error) {
	recordSelection(ctx, selectionFailure)

	s.logger.Error().Err(err).Str("device_id", deviceID).Str("step", step).Msg("Task selection failed")

	if s.emitter != nil {
		s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityWarning, models.EventTaskSelectionFailed,
			"Task selection failed: "+err.Error(),
			events.WithDevice(deviceID),
			events.WithContext(map[string]interface{}{"step": step}))
	}
}
