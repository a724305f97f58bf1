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

// DeviceStatus is the health of a physical automation endpoint.
type DeviceStatus string

const (
	DeviceStatusActive       DeviceStatus = "active"
	DeviceStatusMaintenance  DeviceStatus = "maintenance"
	DeviceStatusDisconnected DeviceStatus = "disconnected"
	DeviceStatusFailed       DeviceStatus = "failed"
)

// DefaultWDAPort is the local iproxy port used when a device has none recorded.
const DefaultWDAPort = 8100

// Device is a phone driven through WebDriverAgent.
type Device struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	UDID            string       `json:"udid"`
	Model           string       `json:"model,omitempty"`
	OSVersion       string       `json:"os_version,omitempty"`
	WDAPort         int          `json:"wda_port"`
	Status          DeviceStatus `json:"status"`
	LastHeartbeatAt *time.Time   `json:"last_heartbeat_at,omitempty"`
	ConnectedSince  *time.Time   `json:"connected_since,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// DisplayName falls back to a UDID or id prefix when no name is set.
func (d *Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}

	if len(d.UDID) > 12 {
		return d.UDID[:12]
	}

	if d.UDID != "" {
		return d.UDID
	}

	if len(d.ID) > 8 {
		return d.ID[:8]
	}

	return d.ID
}

// Port returns the WDA port, defaulting when unset.
func (d *Device) Port() int {
	if d.WDAPort <= 0 {
		return DefaultWDAPort
	}

	return d.WDAPort
}
