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

package automation

import "errors"

var (
	ErrUnsupportedPlatform = errors.New("automation: unsupported platform")
	ErrNotReady            = errors.New("automation: device not ready")
	ErrInstallFailed       = errors.New("automation: app install failed")
	ErrResetFailed         = errors.New("automation: app identity reset failed")
	ErrAuthFailed          = errors.New("automation: authentication failed")
	ErrPlaybookUnavailable = errors.New("automation: no playbook registered for platform")
	ErrSessionNotConnected = errors.New("automation: session not connected")
	ErrCreationUnsupported = errors.New("automation: account creation not supported")
)
