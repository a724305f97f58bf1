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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ehmo/sovi/pkg/api"
	"github.com/ehmo/sovi/pkg/db"
	"github.com/ehmo/sovi/pkg/models"
	"github.com/ehmo/sovi/pkg/scheduler"
)

// RunSchedulerStatus prints the status of a running scheduler process.
func RunSchedulerStatus(ctx context.Context, client *APIClient, cfg *CmdConfig, out io.Writer) error {
	status, err := client.Status(ctx)
	if err != nil {
		return err
	}

	if cfg.JSON {
		return writeJSONOutput(out, status)
	}

	printStatus(out, status)

	return nil
}

// RunSchedulerStop stops the worker loops of a running scheduler process.
func RunSchedulerStop(ctx context.Context, client *APIClient, cfg *CmdConfig, out io.Writer) error {
	report, err := client.Stop(ctx)
	if err != nil {
		return err
	}

	if cfg.JSON {
		return writeJSONOutput(out, report)
	}

	printStopReport(out, report)

	return nil
}

// RunDeviceRegister upserts a device by UDID.
func RunDeviceRegister(ctx context.Context, devices db.DeviceLedger, cfg *CmdConfig, out io.Writer) error {
	device, err := devices.RegisterDevice(ctx, &models.Device{
		Name:      strings.TrimSpace(cfg.DeviceName),
		UDID:      strings.TrimSpace(cfg.DeviceUDID),
		WDAPort:   cfg.DevicePort,
		Model:     cfg.DeviceModel,
		OSVersion: cfg.DeviceOSVersion,
	})
	if err != nil {
		return fmt.Errorf("register device: %w", err)
	}

	fmt.Fprintf(out, "%s %s (%s) on port %d, id %s\n",
		newStyles().success.Render("Registered"), device.DisplayName(), device.UDID, device.Port(), device.ID)

	return nil
}

// RunDeviceList prints every registered device.
func RunDeviceList(ctx context.Context, devices db.DeviceLedger, cfg *CmdConfig, out io.Writer) error {
	list, err := devices.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	if cfg.JSON {
		if list == nil {
			list = []*models.Device{}
		}

		return writeJSONOutput(out, list)
	}

	printDevices(out, list)

	return nil
}

// RunEventsList prints events matching the parsed filters.
func RunEventsList(ctx context.Context, store db.EventStore, cfg *CmdConfig, out io.Writer) error {
	filter := &models.EventFilter{
		Severity:  models.Severity(cfg.EventSeverity),
		Category:  cfg.EventCategory,
		EventType: cfg.EventType,
		DeviceID:  cfg.EventDeviceID,
		Limit:     cfg.EventLimit,
	}

	if cfg.EventUnresolved {
		resolved := false
		filter.Resolved = &resolved
	}

	list, err := store.ListEvents(ctx, filter)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	if cfg.JSON {
		if list == nil {
			list = []*models.Event{}
		}

		return writeJSONOutput(out, list)
	}

	printEvents(out, list)

	return nil
}

// RunEventsResolve marks one event resolved.
func RunEventsResolve(ctx context.Context, store db.EventStore, cfg *CmdConfig, out io.Writer, now time.Time) error {
	by := cfg.ResolvedBy
	if by == "" {
		by = defaultResolvedBy
	}

	if err := store.ResolveEvent(ctx, cfg.EventID, by, now); err != nil {
		return fmt.Errorf("resolve event: %w", err)
	}

	fmt.Fprintf(out, "%s event %d by %s\n", newStyles().success.Render("Resolved"), cfg.EventID, by)

	return nil
}

// PrintMigrations reports the migration files applied by a migrate run.
func PrintMigrations(out io.Writer, applied []string) {
	st := newStyles()

	if len(applied) == 0 {
		fmt.Fprintln(out, st.muted.Render("Database schema is up to date."))
		return
	}

	for _, name := range applied {
		fmt.Fprintf(out, "%s %s\n", st.success.Render("Applied"), name)
	}
}

// SchedulerService adapts a controller to lifecycle.Service for "scheduler start".
type SchedulerService struct {
	Controller api.Controller
	Out        io.Writer
}

// Start starts the worker loops and prints how many devices are being driven.
func (s *SchedulerService) Start(ctx context.Context) error {
	if err := s.Controller.Start(ctx); err != nil {
		return err
	}

	status := s.Controller.Status()
	st := newStyles()

	if !status.Running {
		fmt.Fprintln(s.Out, st.warning.Render("No active devices; scheduler idle. Register devices and POST /api/scheduler/start."))
		return nil
	}

	fmt.Fprintf(s.Out, "%s %d device loop(s), target %d sessions/day per device\n",
		st.success.Render("Scheduler running:"), status.DeviceCount, status.SessionsPerDayTarget)

	return nil
}

// Stop stops the loops if they are still running.
func (s *SchedulerService) Stop(ctx context.Context) error {
	report, err := s.Controller.Stop(ctx)
	if errors.Is(err, scheduler.ErrNotRunning) {
		return nil
	}

	if err != nil {
		return err
	}

	printStopReport(s.Out, report)

	return nil
}
