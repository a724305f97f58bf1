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

package wda

import (
	"context"
	"fmt"
	"time"

	"github.com/ehmo/sovi/pkg/automation"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

const defaultInstallPoll = 5 * time.Second

// Driver implements automation.Capability on top of a WDA Client. Gesture-level
// work (store install, login, browsing) is delegated to per-platform playbooks.
type Driver struct {
	client      *Client
	playbooks   *automation.Playbooks
	logger      logger.Logger
	installPoll time.Duration
}

var _ automation.Capability = (*Driver)(nil)

// NewDriver builds a Driver. A nil registry means no playbooks.
func NewDriver(client *Client, playbooks *automation.Playbooks, log logger.Logger) *Driver {
	if playbooks == nil {
		playbooks = automation.NewPlaybooks()
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Driver{
		client:      client,
		playbooks:   playbooks,
		logger:      log,
		installPoll: defaultInstallPoll,
	}
}

// IsReady reports whether WDA answers /status with ready=true within timeout.
func (d *Driver) IsReady(ctx context.Context, device *models.Device, timeout time.Duration) bool {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, err := d.client.Status(probeCtx, d.client.BaseURL(device.Port()))
	if err != nil {
		d.logger.Debug().Err(err).Str("device_id", device.ID).Msg("WDA readiness probe failed")
		return false
	}

	return status.Ready
}

// Connect opens a WDA session on the device.
func (d *Driver) Connect(ctx context.Context, device *models.Device) (*automation.Session, error) {
	base := d.client.BaseURL(device.Port())

	id, err := d.client.CreateSession(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", automation.ErrNotReady, err)
	}

	d.logger.Info().Str("device_id", device.ID).Str("session_id", id).Msg("WDA session opened")

	return &automation.Session{ID: id, DeviceID: device.ID, BaseURL: base}, nil
}

// Disconnect returns to the home screen and closes the session.
func (d *Driver) Disconnect(ctx context.Context, session *automation.Session) error {
	if err := requireSession(session); err != nil {
		return err
	}

	if err := d.client.PressButton(ctx, session.BaseURL, session.ID, "home"); err != nil {
		d.logger.Debug().Err(err).Str("session_id", session.ID).Msg("Home button press failed")
	}

	return d.client.DeleteSession(ctx, session.BaseURL, session.ID)
}

// ResetAppIdentity terminates and uninstalls the platform app.
func (d *Driver) ResetAppIdentity(ctx context.Context, session *automation.Session, platform models.Platform) error {
	if err := requireSession(session); err != nil {
		return err
	}

	bundleID, err := platform.BundleID()
	if err != nil {
		return fmt.Errorf("%w: %w", automation.ErrUnsupportedPlatform, err)
	}

	if err := d.client.TerminateApp(ctx, session.BaseURL, session.ID, bundleID); err != nil {
		d.logger.Debug().Err(err).Str("bundle_id", bundleID).Msg("Terminate before uninstall failed")
	}

	if err := d.client.UninstallApp(ctx, session.BaseURL, session.ID, bundleID); err != nil {
		return fmt.Errorf("%w: %w", automation.ErrResetFailed, err)
	}

	return nil
}

// InstallApp runs the platform install playbook and waits until the app is present.
func (d *Driver) InstallApp(
	ctx context.Context, session *automation.Session, platform models.Platform, timeout time.Duration,
) error {
	if err := requireSession(session); err != nil {
		return err
	}

	bundleID, err := platform.BundleID()
	if err != nil {
		return fmt.Errorf("%w: %w", automation.ErrUnsupportedPlatform, err)
	}

	book, err := d.playbooks.Lookup(platform)
	if err != nil {
		return err
	}

	if err := book.Install(ctx, session); err != nil {
		return fmt.Errorf("%w: %w", automation.ErrInstallFailed, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(d.installPoll)
	defer ticker.Stop()

	for {
		state, err := d.client.AppState(waitCtx, session.BaseURL, session.ID, bundleID)
		if err == nil && state >= AppStateNotRunning {
			return nil
		}

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("%w: %s not installed after %s", automation.ErrInstallFailed, bundleID, timeout)
		case <-ticker.C:
		}
	}
}

// Authenticate logs the account in through the platform playbook.
func (d *Driver) Authenticate(
	ctx context.Context, session *automation.Session, platform models.Platform, creds *models.AccountCredentials,
) error {
	if err := requireSession(session); err != nil {
		return err
	}

	if creds == nil {
		return fmt.Errorf("%w: no credentials", automation.ErrAuthFailed)
	}

	book, err := d.playbooks.Lookup(platform)
	if err != nil {
		return err
	}

	if err := book.Login(ctx, session, creds); err != nil {
		return fmt.Errorf("%w: %w", automation.ErrAuthFailed, err)
	}

	return nil
}

// RunWarmupSession foregrounds the app and runs the platform warm-up playbook.
func (d *Driver) RunWarmupSession(
	ctx context.Context, session *automation.Session, platform models.Platform,
	phase models.WarmingPhase, duration time.Duration,
) (*models.SessionResult, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	bundleID, err := platform.BundleID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", automation.ErrUnsupportedPlatform, err)
	}

	book, err := d.playbooks.Lookup(platform)
	if err != nil {
		return nil, err
	}

	if err := d.client.ActivateApp(ctx, session.BaseURL, session.ID, bundleID); err != nil {
		return nil, fmt.Errorf("launch %s: %w", bundleID, err)
	}

	started := time.Now()

	result, err := book.Warmup(ctx, session, phase, duration)
	if err != nil {
		return nil, err
	}

	if result == nil {
		result = &models.SessionResult{}
	}

	if result.Duration == 0 {
		result.Duration = time.Since(started)
	}

	return result, nil
}

func requireSession(session *automation.Session) error {
	if session == nil || session.ID == "" {
		return automation.ErrSessionNotConnected
	}

	return nil
}

var _ automation.AccountCreator = (*Driver)(nil)

// CreateAccount signs up a new account when the platform playbook supports it.
func (d *Driver) CreateAccount(
	ctx context.Context, session *automation.Session, platform models.Platform,
) (*automation.CreatedAccount, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	book, err := d.playbooks.Lookup(platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", automation.ErrCreationUnsupported, err)
	}

	signup, ok := book.(automation.SignUpPlaybook)
	if !ok {
		return nil, fmt.Errorf("%w: %s playbook cannot sign up", automation.ErrCreationUnsupported, platform)
	}

	return signup.SignUp(ctx, session)
}
