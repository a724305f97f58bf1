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

// Package cli parses sovi subcommands and renders their output.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ehmo/sovi/pkg/models"
)

const (
	defaultConfigPath = "/etc/sovi/sovi.json"
	defaultAPIURL     = "http://127.0.0.1:8090"
	defaultResolvedBy = "cli"

	actionStart    = "start"
	actionStatus   = "status"
	actionStop     = "stop"
	actionRegister = "register"
	actionList     = "list"
	actionResolve  = "resolve"
)

// Command names.
const (
	CmdScheduler = "scheduler"
	CmdMigrate   = "migrate"
	CmdDevice    = "device"
	CmdEvents    = "events"
	CmdVersion   = "version"
	CmdHelp      = "help"
)

// ParseFlags parses os.Args-style arguments without the program name.
func ParseFlags(args []string) (*CmdConfig, error) {
	cfg := &CmdConfig{}

	if len(args) == 0 {
		cfg.Help = true
		return cfg, nil
	}

	cfg.SubCmd = args[0]

	switch cfg.SubCmd {
	case CmdHelp, "-h", "-help", "--help":
		cfg.SubCmd = CmdHelp
		cfg.Help = true

		return cfg, nil
	case CmdVersion:
		return cfg, nil
	}

	subcommands := map[string]SubcommandHandler{
		CmdScheduler: SchedulerHandler{},
		CmdMigrate:   MigrateHandler{},
		CmdDevice:    DeviceHandler{},
		CmdEvents:    EventsHandler{},
	}

	handler, ok := subcommands[cfg.SubCmd]
	if !ok {
		return cfg, fmt.Errorf("%w: %q", errUnknownCommand, cfg.SubCmd)
	}

	if err := handler.Parse(args[1:], cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func newFlagSet(name string, cfg *CmdConfig) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ConfigFile, "config", defaultConfigPath, "path to sovi.json config file")

	return fs
}

func addAPIFlags(fs *flag.FlagSet, cfg *CmdConfig) {
	fs.StringVar(&cfg.APIURL, "api", defaultAPIURL, "base URL of a running sovi API")
	fs.StringVar(&cfg.APIKey, "api-key", os.Getenv("SOVI_API_KEY"), "API key sent as X-API-Key")
}

func splitAction(args []string, cmd string, allowed ...string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, fmt.Errorf("%w: %s requires one of %s", errMissingAction, cmd, strings.Join(allowed, ", "))
	}

	for _, a := range allowed {
		if args[0] == a {
			return a, args[1:], nil
		}
	}

	return "", nil, fmt.Errorf("%w: %s %s", errUnknownAction, cmd, args[0])
}

// SchedulerHandler handles flags for the scheduler subcommand.
type SchedulerHandler struct{}

// Parse processes the arguments for scheduler start, status and stop.
func (SchedulerHandler) Parse(args []string, cfg *CmdConfig) error {
	action, rest, err := splitAction(args, CmdScheduler, actionStart, actionStatus, actionStop)
	if err != nil {
		return err
	}

	cfg.Action = action

	fs := newFlagSet("scheduler "+action, cfg)
	addAPIFlags(fs, cfg)
	fs.BoolVar(&cfg.JSON, "json", false, "print JSON output")

	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("parsing scheduler %s flags: %w", action, err)
	}

	cfg.Args = fs.Args()

	return nil
}

// MigrateHandler handles flags for the migrate subcommand.
type MigrateHandler struct{}

// Parse processes the arguments for migrate.
func (MigrateHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := newFlagSet(CmdMigrate, cfg)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing migrate flags: %w", err)
	}

	cfg.Args = fs.Args()

	return nil
}

// DeviceHandler handles flags for the device subcommand.
type DeviceHandler struct{}

// Parse processes the arguments for device register and list.
func (DeviceHandler) Parse(args []string, cfg *CmdConfig) error {
	action, rest, err := splitAction(args, CmdDevice, actionRegister, actionList)
	if err != nil {
		return err
	}

	cfg.Action = action

	fs := newFlagSet("device "+action, cfg)

	switch action {
	case actionRegister:
		fs.StringVar(&cfg.DeviceName, "name", "", "display name")
		fs.StringVar(&cfg.DeviceUDID, "udid", "", "device UDID")
		fs.IntVar(&cfg.DevicePort, "port", models.DefaultWDAPort, "forwarded WebDriverAgent port")
		fs.StringVar(&cfg.DeviceModel, "model", "", "hardware model")
		fs.StringVar(&cfg.DeviceOSVersion, "os-version", "", "iOS version")
	case actionList:
		fs.BoolVar(&cfg.JSON, "json", false, "print JSON output")
	}

	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("parsing device %s flags: %w", action, err)
	}

	if action == actionRegister && strings.TrimSpace(cfg.DeviceUDID) == "" {
		return errUDIDRequired
	}

	cfg.Args = fs.Args()

	return nil
}

// EventsHandler handles flags for the events subcommand.
type EventsHandler struct{}

// Parse processes the arguments for events list and resolve.
func (EventsHandler) Parse(args []string, cfg *CmdConfig) error {
	action, rest, err := splitAction(args, CmdEvents, actionList, actionResolve)
	if err != nil {
		return err
	}

	cfg.Action = action

	fs := newFlagSet("events "+action, cfg)

	switch action {
	case actionList:
		fs.StringVar(&cfg.EventSeverity, "severity", "", "info, warning, error or critical")
		fs.StringVar(&cfg.EventCategory, "category", "", "event category")
		fs.StringVar(&cfg.EventType, "type", "", "event type")
		fs.StringVar(&cfg.EventDeviceID, "device", "", "device id")
		fs.BoolVar(&cfg.EventUnresolved, "unresolved", false, "only unresolved events")
		fs.IntVar(&cfg.EventLimit, "limit", models.DefaultEventLimit, "maximum events")
		fs.BoolVar(&cfg.JSON, "json", false, "print JSON output")
	case actionResolve:
		fs.Int64Var(&cfg.EventID, "id", 0, "event id")
		fs.StringVar(&cfg.ResolvedBy, "by", defaultResolvedBy, "who resolved the event")

		// Accept the id before the flags: "events resolve 42 -by oncall".
		if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
			id, err := strconv.ParseInt(rest[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %q", errEventIDRequired, rest[0])
			}

			cfg.EventID = id
			rest = rest[1:]
		}
	}

	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("parsing events %s flags: %w", action, err)
	}

	if action == actionResolve && cfg.EventID <= 0 {
		return errEventIDRequired
	}

	cfg.Args = fs.Args()

	return nil
}
