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

// Package automation defines the device automation contract the scheduler drives.
package automation

import (
	"context"
	"time"

	"github.com/ehmo/sovi/pkg/models"
)

//go:generate mockgen -destination=mock_automation.go -package=automation github.com/ehmo/sovi/pkg/automation Capability,AccountCreator,Playbook

// Session is an open automation session on one device.
type Session struct {
	ID       string
	DeviceID string
	BaseURL  string
}

// Capability is everything a device worker loop needs from the automation layer.
// Calls block up to their own internal timeouts.
type Capability interface {
	// IsReady probes the device once; timeout bounds the probe.
	IsReady(ctx context.Context, device *models.Device, timeout time.Duration) bool
	Connect(ctx context.Context, device *models.Device) (*Session, error)
	Disconnect(ctx context.Context, session *Session) error
	// ResetAppIdentity removes the platform app so the next install gets a fresh vendor id.
	ResetAppIdentity(ctx context.Context, session *Session, platform models.Platform) error
	InstallApp(ctx context.Context, session *Session, platform models.Platform, timeout time.Duration) error
	Authenticate(ctx context.Context, session *Session, platform models.Platform, creds *models.AccountCredentials) error
	RunWarmupSession(
		ctx context.Context, session *Session, platform models.Platform, phase models.WarmingPhase, duration time.Duration,
	) (*models.SessionResult, error)
}

// CreatedAccount is a freshly signed-up identity with plaintext credentials.
type CreatedAccount struct {
	Username    string
	Credentials models.AccountCredentials
}

// AccountCreator is implemented by capabilities that can sign up new accounts.
type AccountCreator interface {
	CreateAccount(ctx context.Context, session *Session, platform models.Platform) (*CreatedAccount, error)
}

// Playbook drives the UI of one platform's app inside an open session.
type Playbook interface {
	// Install starts the app installation. The caller waits for it to land.
	Install(ctx context.Context, session *Session) error
	Login(ctx context.Context, session *Session, creds *models.AccountCredentials) error
	Warmup(ctx context.Context, session *Session, phase models.WarmingPhase, duration time.Duration) (*models.SessionResult, error)
}

// SignUpPlaybook is implemented by playbooks that can register new accounts.
type SignUpPlaybook interface {
	SignUp(ctx context.Context, session *Session) (*CreatedAccount, error)
}
