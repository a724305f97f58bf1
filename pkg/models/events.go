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

// Severity grades an Event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Event categories.
const (
	EventCategoryScheduler = "scheduler"
	EventCategoryDevice    = "device"
	EventCategoryAccount   = "account"
)

// Event types emitted by the fleet scheduler.
const (
	EventSchedulerStarted    = "scheduler_started"
	EventSchedulerStopping   = "scheduler_stopping"
	EventSchedulerStopped    = "scheduler_stopped"
	EventNoDevices           = "no_devices"
	EventDeviceDisconnected  = "device_disconnected"
	EventDeviceLoopError     = "device_loop_error"
	EventTaskSelectionFailed = "task_selection_failed"
	EventWarmingStarted      = "warming_started"
	EventWarmingComplete     = "warming_complete"
	EventWarmingFailed       = "warming_failed"
	EventResetFailed         = "reset_failed"
	EventInstallFailed       = "install_failed"
	EventLoginFailed         = "login_failed"
	EventCreationStarted     = "creation_started"
	EventCreationSkipped     = "creation_skipped"
	EventCreationFailed      = "creation_failed"
	EventAccountCreated      = "account_created"
)

// Event is an immutable audit record written to system_events.
type Event struct {
	ID         int64                  `json:"id"`
	Timestamp  time.Time              `json:"timestamp"`
	Category   string                 `json:"category"`
	Severity   Severity               `json:"severity"`
	EventType  string                 `json:"event_type"`
	DeviceID   *string                `json:"device_id,omitempty"`
	AccountID  *string                `json:"account_id,omitempty"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Resolved   bool                   `json:"resolved"`
	ResolvedBy *string                `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time             `json:"resolved_at,omitempty"`
}

// EventFilter narrows event listings. Zero values mean "any".
type EventFilter struct {
	Severity  Severity
	Category  string
	EventType string
	DeviceID  string
	AccountID string
	Resolved  *bool
	AfterID   int64
	Limit     int
}

// DefaultEventLimit bounds event listings when no limit is given.
const DefaultEventLimit = 100

// CloudEvent is the CloudEvents 1.0 envelope used when fan-out to NATS is enabled.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}
