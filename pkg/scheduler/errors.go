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

import "errors"

var (
	// ErrAlreadyRunning is returned by Start when loops are already running.
	ErrAlreadyRunning = errors.New("scheduler already running")
	// ErrNotRunning is returned by Stop when there is nothing to stop.
	ErrNotRunning = errors.New("scheduler not running")
	// ErrLoopsDraining is returned by Start when every active device still has
	// a loop left over from a Stop that timed out.
	ErrLoopsDraining = errors.New("previous device loops still draining")
	// ErrDeviceUnreachable marks a readiness timeout.
	ErrDeviceUnreachable = errors.New("device automation endpoint unreachable")

	errMissingDependency = errors.New("scheduler: missing dependency")
	errTaskPanicked      = errors.New("task panicked")
	errUnknownTaskKind   = errors.New("unknown task kind")
)
