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

package cli

// CmdConfig holds parsed command-line configuration.
type CmdConfig struct {
	Help       bool
	SubCmd     string
	Action     string
	ConfigFile string
	APIURL     string
	APIKey     string
	JSON       bool
	Args       []string

	DeviceName      string
	DeviceUDID      string
	DevicePort      int
	DeviceModel     string
	DeviceOSVersion string

	EventSeverity   string
	EventCategory   string
	EventType       string
	EventDeviceID   string
	EventUnresolved bool
	EventLimit      int
	EventID         int64
	ResolvedBy      string
}

// SubcommandHandler defines the interface for parsing subcommand flags.
type SubcommandHandler interface {
	Parse(args []string, cfg *CmdConfig) error
}
