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

package models

import "time"

// TaskKind distinguishes the two kinds of device work.
type TaskKind string

const (
	TaskKindWarm   TaskKind = "warm"
	TaskKindCreate TaskKind = "create"
)

// Task is a per-iteration scheduling decision. It is never persisted.
type Task struct {
	Kind     TaskKind
	Account  *Account // set for warm tasks
	Platform Platform // set for create tasks
}

// NewWarmTask builds a warm task for a claimed account.
func NewWarmTask(a *Account) *Task {
	return &Task{Kind: TaskKindWarm, Account: a, Platform: a.Platform}
}

// NewCreateTask builds a creation task for a platform.
func NewCreateTask(p Platform) *Task {
	return &Task{Kind: TaskKindCreate, Platform: p}
}

// Worker loop phases reported through WorkerStatus.Phase.
const (
	PhaseStarting       = "starting"
	PhaseWaitingForWDA  = "waiting_for_wda"
	PhaseWDAUnreachable = "wda_unreachable"
	PhaseSelectingTask  = "selecting_task"
	PhaseIdle           = "idle"
	PhaseCooldown       = "cooldown"
	PhaseErrorBackoff   = "error_backoff"
	PhaseStopped        = "stopped"

	// Executing phases cover reset, install, login and the session itself.
	PhaseExecutingWarm   = "executing_warm"
	PhaseExecutingCreate = "executing_create"
)

// WorkerStatus is a read-only snapshot of one device loop.
type WorkerStatus struct {
	DeviceID       string     `json:"-"`
	DeviceName     string     `json:"device_name"`
	Phase          string     `json:"phase"`
	CurrentAccount *string    `json:"current_account"`
	SessionsToday  int        `json:"sessions_today"`
	LastSessionAt  *time.Time `json:"last_session_at"`
	Alive          bool       `json:"alive"`
	Error          *string    `json:"error"`
}

// SchedulerStatus is the structured status of the fleet controller.
type SchedulerStatus struct {
	Running              bool                    `json:"running"`
	DeviceCount          int                     `json:"device_count"`
	SessionsPerDayTarget int                     `json:"sessions_per_day_target"`
	Workers              map[string]WorkerStatus `json:"workers"`
	// Draining lists devices whose loop outlived a Stop and has not exited yet.
	Draining []string `json:"draining,omitempty"`
}

// SessionResult summarises a completed warm-up session.
type SessionResult struct {
	VideosWatched int           `json:"videos_watched"`
	Likes         int           `json:"likes"`
	Follows       int           `json:"follows"`
	Duration      time.Duration `json:"duration"`
}
