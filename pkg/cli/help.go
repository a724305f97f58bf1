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

import (
	"fmt"
	"io"
)

// ShowHelp prints usage for every subcommand.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, `sovi: device fleet scheduler for account warm-up
Usage:
  sovi <command> <action> [options]

Commands:
  scheduler start     run the scheduler and HTTP API in the foreground
  scheduler status    show scheduler and per-device state from a running process
  scheduler stop      stop the worker loops of a running process
  migrate             apply pending database migrations
  device register     register or refresh a device by UDID
  device list         list registered devices
  events list         list system events, newest first
  events resolve      mark an event resolved
  version             print the build version

Common options:
  -config string      path to sovi.json (default "/etc/sovi/sovi.json")
  -api string         base URL of a running sovi API (default "http://127.0.0.1:8090")
  -api-key string     API key sent as X-API-Key (default $SOVI_API_KEY)
  -json               print JSON instead of a table

Options for device register:
  -name string        display name
  -udid string        device UDID (required)
  -port int           forwarded WebDriverAgent port (default 8100)
  -model string       hardware model
  -os-version string  iOS version

Options for events list:
  -severity string    info, warning, error or critical
  -category string    event category
  -type string        event type
  -device string      device id
  -unresolved         only unresolved events
  -limit int          maximum events (default 100)

Options for events resolve:
  -id int             event id (or pass it as the first argument)
  -by string          who resolved it (default "cli")

Examples:
  sovi migrate -config /etc/sovi/sovi.json
  sovi device register -name "iPhone 12 #3" -udid 00008101-000A1234 -port 8103
  sovi scheduler start -config /etc/sovi/sovi.json
  sovi scheduler status -json
  sovi events list -severity critical -unresolved
  sovi events resolve 42 -by oncall
`)
}
