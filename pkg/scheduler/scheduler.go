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

// Package scheduler runs one worker loop per device and keeps the fleet busy
// warming accounts or creating new ones.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ehmo/sovi/pkg/automation"
	"github.com/ehmo/sovi/pkg/crypto/secrets"
	"github.com/ehmo/sovi/pkg/db"
	"github.com/ehmo/sovi/pkg/events"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

// CredentialVault opens stored credentials before login and seals new ones.
type CredentialVault interface {
	OpenCredentials(account *models.Account) (*models.AccountCredentials, error)
	SealCredentials(creds *models.AccountCredentials) (models.Credentials, error)
}

// Deps are the collaborators a Scheduler drives.
type Deps struct {
	Accounts   db.AccountLedger
	Devices    db.DeviceLedger
	Automation automation.Capability
	// Vault defaults to a keyless cipher that only handles accounts without credentials.
	Vault   CredentialVault
	Emitter *events.Emitter
	Clock   Clock
	Logger  logger.Logger
}

// StopReport describes how the loops ended.
type StopReport struct {
	Workers  []models.WorkerStatus `json:"workers"`
	TimedOut []string              `json:"timed_out"`
}

// Scheduler is the fleet controller. Construct one per process and pass it to
// whatever needs it.
type Scheduler struct {
	cfg        models.SchedulerConfig
	loc        *time.Location
	accounts   db.AccountLedger
	devices    db.DeviceLedger
	automation automation.Capability
	vault      CredentialVault
	emitter    *events.Emitter
	selector   *Selector
	clock      Clock
	logger     logger.Logger

	// lifecycle serialises Start and Stop.
	lifecycle sync.Mutex

	mu      sync.RWMutex
	running bool
	stop    chan struct{}
	cancel  context.CancelFunc
	workers map[string]*worker
	// draining holds loops that missed the join timeout and may still be
	// inside a session. Their devices are not restarted until done closes.
	draining map[string]*worker
}

// New builds a Scheduler.
func New(cfg *models.SchedulerConfig, deps Deps) (*Scheduler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config", errMissingDependency)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case deps.Accounts == nil:
		return nil, fmt.Errorf("%w: account ledger", errMissingDependency)
	case deps.Devices == nil:
		return nil, fmt.Errorf("%w: device ledger", errMissingDependency)
	case deps.Automation == nil:
		return nil, fmt.Errorf("%w: automation capability", errMissingDependency)
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	clock := deps.Clock
	if clock == nil {
		clock = realClock{}
	}

	emitter := deps.Emitter
	if emitter == nil {
		emitter = events.NewEmitter(nil, nil, log)
	}

	vault := deps.Vault
	if vault == nil {
		vault = (*secrets.Cipher)(nil)
	}

	return &Scheduler{
		cfg:        *cfg,
		loc:        cfg.Location(),
		accounts:   deps.Accounts,
		devices:    deps.Devices,
		automation: deps.Automation,
		vault:      vault,
		emitter:    emitter,
		selector:   NewSelector(cfg, deps.Accounts, emitter, clock, log),
		clock:      clock,
		logger:     log,
		workers:    make(map[string]*worker),
		draining:   make(map[string]*worker),
	}, nil
}

// Start spawns one loop per active device. With no active devices it emits a
// warning and stays stopped. Devices registered later need a restart. A device
// whose previous loop is still draining is skipped; if every device is
// draining Start returns ErrLoopsDraining.
func (s *Scheduler) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.IsRunning() {
		return ErrAlreadyRunning
	}

	devices, err := s.devices.ListActiveDevices(ctx)
	if err != nil {
		return fmt.Errorf("list active devices: %w", err)
	}

	if len(devices) == 0 {
		s.logger.Warn().Msg("No active devices found")
		s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityWarning, models.EventNoDevices,
			"Scheduler started but no active devices found")

		return nil
	}

	devices = s.skipDraining(devices)
	if len(devices) == 0 {
		return ErrLoopsDraining
	}

	s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityInfo, models.EventSchedulerStarted,
		fmt.Sprintf("Starting scheduler with %d devices", len(devices)),
		events.WithContext(map[string]interface{}{"device_count": len(devices)}))

	// Loops outlive the caller's context; only Stop ends them.
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := make(chan struct{})
	workers := make(map[string]*worker, len(devices))

	for _, device := range devices {
		workers[device.ID] = newWorker(s, device)
	}

	s.mu.Lock()
	s.running = true
	s.stop = stop
	s.cancel = cancel
	s.workers = workers
	s.mu.Unlock()

	for _, w := range workers {
		go w.run(loopCtx, stop)

		s.logger.Info().Str("device_id", w.device.ID).Str("device_name", w.device.DisplayName()).
			Msg("Started device loop")
	}

	return nil
}

// Stop signals every loop and waits for each up to the join timeout. Loops
// inside a session are not interrupted; a loop that misses its deadline is
// reported in TimedOut and its context is cancelled.
func (s *Scheduler) Stop(ctx context.Context) (*StopReport, error) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()

		return nil, ErrNotRunning
	}

	s.running = false
	stop := s.stop
	cancel := s.cancel
	workers := s.sortedWorkers()
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping scheduler")
	s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityInfo, models.EventSchedulerStopping,
		"Scheduler stop requested")

	close(stop)

	report := &StopReport{}
	joinTimeout := time.Duration(s.cfg.JoinTimeout)

	var overran []*worker

	for _, w := range workers {
		select {
		case <-w.done:
		case <-s.clock.After(joinTimeout):
			overran = append(overran, w)
		case <-ctx.Done():
			overran = append(overran, w)
		}

		report.Workers = append(report.Workers, w.snapshot())
	}

	cancel()

	s.mu.Lock()
	s.workers = make(map[string]*worker)

	for _, w := range overran {
		s.draining[w.device.ID] = w
		report.TimedOut = append(report.TimedOut, w.device.ID)
	}

	s.mu.Unlock()

	if len(report.TimedOut) > 0 {
		s.logger.Warn().Strs("device_ids", report.TimedOut).Msg("Device loops did not exit before join timeout")
	}

	s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityInfo, models.EventSchedulerStopped,
		"Scheduler stopped",
		events.WithContext(map[string]interface{}{
			"device_count": len(workers),
			"timed_out":    len(report.TimedOut),
		}))

	return report, nil
}

// skipDraining forgets draining loops that have exited and filters out devices
// whose loop has not.
func (s *Scheduler) skipDraining(devices []*models.Device) []*models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, w := range s.draining {
		select {
		case <-w.done:
			delete(s.draining, id)
		default:
		}
	}

	out := make([]*models.Device, 0, len(devices))

	for _, device := range devices {
		if _, ok := s.draining[device.ID]; ok {
			s.logger.Warn().Str("device_id", device.ID).Str("device_name", device.DisplayName()).
				Msg("Previous device loop still draining, not restarting it")

			continue
		}

		out = append(out, device)
	}

	return out
}

// IsRunning reports whether loops are active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}

// Status snapshots the controller without waiting on any loop.
func (s *Scheduler) Status() *models.SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &models.SchedulerStatus{
		Running:              s.running,
		DeviceCount:          len(s.workers),
		Draining:             s.drainingIDs(),
		SessionsPerDayTarget: s.cfg.SessionsPerDayTarget(),
		Workers:              make(map[string]models.WorkerStatus, len(s.workers)),
	}

	for id, w := range s.workers {
		out.Workers[id] = w.snapshot()
	}

	return out
}

// sleep waits for d or until stop is closed; it reports whether the full
// duration elapsed.
func (s *Scheduler) sleep(stop <-chan struct{}, d time.Duration) bool {
	select {
	case <-stop:
		return false
	case <-s.clock.After(d):
		return true
	}
}

// drainingIDs must be called with s.mu held. Loops that have since exited
// are left out.
func (s *Scheduler) drainingIDs() []string {
	var out []string

	for id, w := range s.draining {
		select {
		case <-w.done:
		default:
			out = append(out, id)
		}
	}

	sort.Strings(out)

	return out
}

// sortedWorkers must be called with s.mu held.
func (s *Scheduler) sortedWorkers() []*worker {
	out := make([]*worker, 0, len(s.workers))
	for _, w := range s.workers {
		out = append(out, w)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].device.ID < out[j].device.ID })

	return out
}
