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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehmo/sovi/pkg/automation"
	"github.com/ehmo/sovi/pkg/db"
	"github.com/ehmo/sovi/pkg/events"
	"github.com/ehmo/sovi/pkg/models"
)

const (
	probeTimeout   = 5 * time.Second
	releaseTimeout = 10 * time.Second
)

// Failure stages reported in events and metrics.
const (
	stageConnect  = "connect"
	stageInstall  = "install"
	stageLogin    = "login"
	stageWarmup   = "warmup"
	stageComplete = "complete"
	stageCreate   = "create"
	stagePanic    = "panic"
)

// worker runs the loop for one device. Its status is written only by the loop
// goroutine and read through snapshot.
type worker struct {
	s      *Scheduler
	device *models.Device
	log    zerolog.Logger
	done   chan struct{}

	mu     sync.RWMutex
	status models.WorkerStatus
	day    time.Time
}

func newWorker(s *Scheduler, device *models.Device) *worker {
	return &worker{
		s:      s,
		device: device,
		log: s.logger.WithFields(map[string]interface{}{
			"device_id":   device.ID,
			"device_name": device.DisplayName(),
		}),
		done: make(chan struct{}),
		status: models.WorkerStatus{
			DeviceID:   device.ID,
			DeviceName: device.DisplayName(),
			Phase:      models.PhaseStarting,
			Alive:      true,
		},
	}
}

func (w *worker) snapshot() models.WorkerStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := w.status

	if w.status.CurrentAccount != nil {
		v := *w.status.CurrentAccount
		out.CurrentAccount = &v
	}

	if w.status.LastSessionAt != nil {
		v := *w.status.LastSessionAt
		out.LastSessionAt = &v
	}

	if w.status.Error != nil {
		v := *w.status.Error
		out.Error = &v
	}

	return out
}

func (w *worker) update(fn func(*models.WorkerStatus)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fn(&w.status)
}

func (w *worker) setPhase(phase string) {
	w.update(func(st *models.WorkerStatus) { st.Phase = phase })
	w.log.Debug().Str("phase", phase).Msg("Device loop phase")
}

func (w *worker) setError(msg string) {
	w.update(func(st *models.WorkerStatus) { st.Error = &msg })
}

func (w *worker) setAccount(username string) {
	w.update(func(st *models.WorkerStatus) {
		if username == "" {
			st.CurrentAccount = nil
			return
		}

		st.CurrentAccount = &username
	})
}

// rollDay resets the daily session counter when the scheduler day changes.
func (w *worker) rollDay(now time.Time) {
	today := DayStart(now, w.s.loc)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.day.Equal(today) {
		w.day = today
		w.status.SessionsToday = 0
	}
}

func (w *worker) recordSession(at time.Time) {
	w.rollDay(at)
	w.update(func(st *models.WorkerStatus) {
		st.SessionsToday++
		st.LastSessionAt = &at
	})
}

// run is the device loop. Only a closed stop channel ends it.
func (w *worker) run(ctx context.Context, stop <-chan struct{}) {
	defer close(w.done)

	w.log.Info().Int("wda_port", w.device.Port()).Msg("Device loop started")

	for !stopped(stop) {
		w.iterate(ctx, stop)
	}

	w.update(func(st *models.WorkerStatus) {
		st.Phase = models.PhaseStopped
		st.Alive = false
		st.CurrentAccount = nil
	})

	w.log.Info().Msg("Device loop ended")
}

func (w *worker) iterate(ctx context.Context, stop <-chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			w.loopError(ctx, stop, fmt.Errorf("%w: %v", errTaskPanicked, r))
		}
	}()

	now := w.s.clock.Now()

	if err := w.s.devices.Heartbeat(ctx, w.device.ID, now); err != nil {
		w.log.Warn().Err(err).Msg("Heartbeat failed")
	}

	w.update(func(st *models.WorkerStatus) { st.Error = nil })
	w.rollDay(now)

	w.setPhase(models.PhaseWaitingForWDA)

	if !w.waitForReady(ctx, stop) {
		if stopped(stop) {
			return
		}

		w.unreachable(ctx, stop)

		return
	}

	if stopped(stop) {
		return
	}

	w.setPhase(models.PhaseSelectingTask)

	task := w.s.selector.Select(ctx, w.device.ID)
	if task == nil {
		w.setPhase(models.PhaseIdle)
		w.s.sleep(stop, time.Duration(w.s.cfg.IdleSleep))

		return
	}

	if err := w.execute(ctx, task); err != nil {
		if errors.Is(err, errTaskPanicked) {
			w.loopError(ctx, stop, err)
			return
		}

		w.backoff(ctx, stop, err, "task_failed")

		return
	}

	w.recordSession(w.s.clock.Now())

	w.setPhase(models.PhaseCooldown)
	w.s.sleep(stop, time.Duration(w.s.cfg.Cooldown))
}

// waitForReady polls readiness until it succeeds, times out, or stop is closed.
func (w *worker) waitForReady(ctx context.Context, stop <-chan struct{}) bool {
	timeout := time.Duration(w.s.cfg.ReadinessTimeout)
	deadline := w.s.clock.Now().Add(timeout)

	for {
		probe := min(probeTimeout, timeout)

		if w.s.automation.IsReady(ctx, w.device, probe) {
			return true
		}

		if !w.s.clock.Now().Before(deadline) {
			return false
		}

		if !w.s.sleep(stop, time.Duration(w.s.cfg.ReadinessPollInterval)) {
			return false
		}
	}
}

func (w *worker) unreachable(ctx context.Context, stop <-chan struct{}) {
	w.setPhase(models.PhaseWDAUnreachable)
	w.setError(ErrDeviceUnreachable.Error())

	recordDisconnect(ctx, w.device.ID)

	w.s.emitter.Emit(ctx, models.EventCategoryDevice, models.SeverityCritical, models.EventDeviceDisconnected,
		"WDA not responding on "+w.device.DisplayName(),
		events.WithDevice(w.device.ID),
		events.WithContext(map[string]interface{}{
			"device_name": w.device.DisplayName(),
			"wda_port":    w.device.Port(),
		}))

	if err := w.s.devices.SetDeviceStatus(ctx, w.device.ID, models.DeviceStatusDisconnected, w.s.clock.Now()); err != nil {
		w.log.Warn().Err(err).Msg("Failed to mark device disconnected")
	}

	recordBackoff(ctx, "unreachable")
	w.s.sleep(stop, time.Duration(w.s.cfg.ErrorBackoff))
}

func (w *worker) loopError(ctx context.Context, stop <-chan struct{}, err error) {
	w.log.Error().Err(err).Msg("Unhandled error in device loop")

	w.s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityError, models.EventDeviceLoopError,
		"Unhandled error in "+w.device.DisplayName()+" loop",
		events.WithDevice(w.device.ID),
		events.WithContext(map[string]interface{}{
			"device_name": w.device.DisplayName(),
			"error":       err.Error(),
		}))

	w.backoff(ctx, stop, err, "loop_error")
}

func (w *worker) backoff(ctx context.Context, stop <-chan struct{}, err error, reason string) {
	w.setError(err.Error())
	w.setPhase(models.PhaseErrorBackoff)

	recordBackoff(ctx, reason)
	w.s.sleep(stop, time.Duration(w.s.cfg.ErrorBackoff))
}

// execute runs one task, converting panics into errors.
func (w *worker) execute(ctx context.Context, task *models.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			recordSessionFailed(ctx, string(task.Platform), stagePanic)

			err = fmt.Errorf("%w: %v", errTaskPanicked, r)
		}
	}()

	switch task.Kind {
	case models.TaskKindWarm:
		w.setPhase(models.PhaseExecutingWarm)
		return w.warm(ctx, task.Account)
	case models.TaskKindCreate:
		w.setPhase(models.PhaseExecutingCreate)
		return w.create(ctx, task.Platform)
	}

	return fmt.Errorf("%w: %q", errUnknownTaskKind, task.Kind)
}

// warm runs reset, install, login and a timed session, then advances the
// account in one ledger write. Any failure releases the claim untouched.
func (w *worker) warm(ctx context.Context, account *models.Account) error {
	phase := models.PhaseForState(account.CurrentState)
	platform := account.Platform
	duration := time.Duration(w.s.cfg.WarmDuration)
	dayStart := DayStart(w.s.clock.Now(), w.s.loc)

	w.setAccount(account.Username)
	defer w.setAccount("")

	completed := false

	defer func() {
		if !completed {
			w.release(ctx, account)
		}
	}()

	w.s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityInfo, models.EventWarmingStarted,
		fmt.Sprintf("Warming %s/%s (phase=%s)", platform, account.Username, phase),
		events.WithDevice(w.device.ID),
		events.WithAccount(account.ID),
		events.WithContext(map[string]interface{}{
			"platform":     string(platform),
			"phase":        string(phase),
			"duration_min": duration.Minutes(),
		}))

	session, err := w.s.automation.Connect(ctx, w.device)
	if err != nil {
		return w.warmFailed(ctx, account, stageConnect, models.EventWarmingFailed, err)
	}

	defer w.disconnect(ctx, session)

	if err := w.s.automation.ResetAppIdentity(ctx, session, platform); err != nil {
		w.s.emitter.Emit(ctx, models.EventCategoryDevice, models.SeverityWarning, models.EventResetFailed,
			fmt.Sprintf("Failed to delete %s app before warming", platform),
			events.WithDevice(w.device.ID),
			events.WithAccount(account.ID),
			events.WithContext(map[string]interface{}{"platform": string(platform), "error": err.Error()}))
	}

	if err := w.s.automation.InstallApp(ctx, session, platform, time.Duration(w.s.cfg.InstallTimeout)); err != nil {
		return w.warmFailed(ctx, account, stageInstall, models.EventInstallFailed, err)
	}

	creds, err := w.s.vault.OpenCredentials(account)
	if err != nil {
		return w.warmFailed(ctx, account, stageLogin, models.EventLoginFailed, err)
	}

	if err := w.s.automation.Authenticate(ctx, session, platform, creds); err != nil {
		return w.warmFailed(ctx, account, stageLogin, models.EventLoginFailed, err)
	}

	started := w.s.clock.Now()

	result, err := w.s.automation.RunWarmupSession(ctx, session, platform, phase, duration)
	if err != nil {
		return w.warmFailed(ctx, account, stageWarmup, models.EventWarmingFailed, err)
	}

	if result == nil {
		result = &models.SessionResult{}
	}

	finished := w.s.clock.Now()

	updated, err := w.s.accounts.CompleteWarmSession(ctx, &db.WarmCompletion{
		AccountID:        account.ID,
		DeviceID:         w.device.ID,
		PreviousDayCount: account.WarmingDayCount,
		DayStart:         dayStart,
		CompletedAt:      finished,
	})
	if err != nil {
		if errors.Is(err, db.ErrClaimLost) {
			completed = true
		}

		return w.warmFailed(ctx, account, stageComplete, models.EventWarmingFailed, err)
	}

	completed = true

	recordSessionCompleted(ctx, string(platform), finished.Sub(started))

	w.s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityInfo, models.EventWarmingComplete,
		fmt.Sprintf("Warmed %s/%s: %d videos", platform, account.Username, result.VideosWatched),
		events.WithDevice(w.device.ID),
		events.WithAccount(account.ID),
		events.WithContext(map[string]interface{}{
			"platform":       string(platform),
			"videos_watched": result.VideosWatched,
			"likes":          result.Likes,
			"follows":        result.Follows,
			"duration_min":   result.Duration.Minutes(),
			"phase":          string(phase),
			"new_state":      string(updated.CurrentState),
			"warming_day":    updated.WarmingDayCount,
		}))

	return nil
}

func (w *worker) warmFailed(
	ctx context.Context, account *models.Account, stage, eventType string, err error,
) error {
	recordSessionFailed(ctx, string(account.Platform), stage)

	w.s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityError, eventType,
		fmt.Sprintf("Warming %s/%s failed at %s", account.Platform, account.Username, stage),
		events.WithDevice(w.device.ID),
		events.WithAccount(account.ID),
		events.WithContext(map[string]interface{}{
			"platform": string(account.Platform),
			"username": account.Username,
			"step":     stage,
			"error":    err.Error(),
		}))

	return fmt.Errorf("warm %s at %s: %w", account.ID, stage, err)
}

func (w *worker) release(ctx context.Context, account *models.Account) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := w.s.accounts.ReleaseClaim(releaseCtx, account.ID, w.device.ID); err != nil {
		w.log.Warn().Err(err).Str("account_id", account.ID).Msg("Failed to release account claim")
	}
}

func (w *worker) disconnect(ctx context.Context, session *automation.Session) {
	if err := w.s.automation.Disconnect(context.WithoutCancel(ctx), session); err != nil {
		w.log.Debug().Err(err).Msg("Disconnect failed")
	}
}

// create signs up a new account when the automation layer can; otherwise it
// records that creation was skipped and leaves the ledger alone.
func (w *worker) create(ctx context.Context, platform models.Platform) error {
	w.s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityInfo, models.EventCreationStarted,
		fmt.Sprintf("Creating new %s account on %s", platform, w.device.DisplayName()),
		events.WithDevice(w.device.ID),
		events.WithContext(map[string]interface{}{"platform": string(platform)}))

	creator, ok := w.s.automation.(automation.AccountCreator)
	if !ok {
		w.creationSkipped(ctx, platform, "account_creator_not_configured")
		return nil
	}

	session, err := w.s.automation.Connect(ctx, w.device)
	if err != nil {
		return w.createFailed(ctx, platform, stageConnect, models.EventCreationFailed, err)
	}

	defer w.disconnect(ctx, session)

	if err := w.s.automation.ResetAppIdentity(ctx, session, platform); err != nil {
		w.log.Warn().Err(err).Str("platform", string(platform)).Msg("App reset before sign-up failed")
	}

	if err := w.s.automation.InstallApp(ctx, session, platform, time.Duration(w.s.cfg.InstallTimeout)); err != nil {
		return w.createFailed(ctx, platform, stageInstall, models.EventInstallFailed, err)
	}

	created, err := creator.CreateAccount(ctx, session, platform)
	if errors.Is(err, automation.ErrCreationUnsupported) {
		w.creationSkipped(ctx, platform, "provider_integration_required")
		return nil
	}

	if err != nil {
		return w.createFailed(ctx, platform, stageCreate, models.EventCreationFailed, err)
	}

	sealed, err := w.s.vault.SealCredentials(&created.Credentials)
	if err != nil {
		return w.createFailed(ctx, platform, stageCreate, models.EventCreationFailed, err)
	}

	deviceID := w.device.ID

	account, err := w.s.accounts.InsertAccount(ctx, &models.Account{
		Platform:     platform,
		Username:     created.Username,
		CurrentState: models.AccountStateCreated,
		DeviceID:     &deviceID,
		Credentials:  sealed,
	})
	if err != nil {
		return w.createFailed(ctx, platform, stageCreate, models.EventCreationFailed, err)
	}

	w.s.emitter.Emit(ctx, models.EventCategoryAccount, models.SeverityInfo, models.EventAccountCreated,
		fmt.Sprintf("Created %s account %s", platform, account.Username),
		events.WithDevice(w.device.ID),
		events.WithAccount(account.ID),
		events.WithContext(map[string]interface{}{"platform": string(platform)}))

	return nil
}

func (w *worker) creationSkipped(ctx context.Context, platform models.Platform, reason string) {
	w.s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityWarning, models.EventCreationSkipped,
		fmt.Sprintf("Account creation for %s requires provider integration", platform),
		events.WithDevice(w.device.ID),
		events.WithContext(map[string]interface{}{"platform": string(platform), "reason": reason}))
}

func (w *worker) createFailed(ctx context.Context, platform models.Platform, stage, eventType string, err error) error {
	recordSessionFailed(ctx, string(platform), stage)

	w.s.emitter.Emit(ctx, models.EventCategoryScheduler, models.SeverityError, eventType,
		fmt.Sprintf("Creating %s account failed at %s", platform, stage),
		events.WithDevice(w.device.ID),
		events.WithContext(map[string]interface{}{
			"platform": string(platform),
			"step":     stage,
			"error":    err.Error(),
		}))

	return fmt.Errorf("create %s account at %s: %w", platform, stage, err)
}

func stopped(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
