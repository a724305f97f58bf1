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
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ehmo/sovi/pkg/models"
	"github.com/ehmo/sovi/pkg/scheduler"
)

// Dracula theme colors.
const (
	draculaGreen   = "#50FA7B"
	draculaOrange  = "#FFB86C"
	draculaPurple  = "#BD93F9"
	draculaRed     = "#FF5555"
	draculaComment = "#6272A4"
)

type outputStyles struct {
	title, success, warning, error, muted lipgloss.Style
}

func newStyles() outputStyles {
	return outputStyles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Bold(true),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)),
		error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
	}
}

// PrintError renders err in the error style.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, newStyles().error.Render("Error: "+err.Error()))
}

func writeJSONOutput(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func printStatus(w io.Writer, status *models.SchedulerStatus) {
	st := newStyles()

	state := st.warning.Render("stopped")
	if status.Running {
		state = st.success.Render("running")
	}

	fmt.Fprintf(w, "%s %s\n", st.title.Render("Scheduler:"), state)
	fmt.Fprintf(w, "Devices: %d  Target sessions/day: %d\n", status.DeviceCount, status.SessionsPerDayTarget)

	if len(status.Workers) == 0 {
		fmt.Fprintln(w, st.muted.Render("No device loops."))
		return
	}

	ids := make([]string, 0, len(status.Workers))
	for id := range status.Workers {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tPHASE\tSESSIONS TODAY\tALIVE\tLAST SESSION\tERROR")

	for _, id := range ids {
		ws := status.Workers[id]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\t%s\n",
			ws.DeviceName, ws.Phase, ws.SessionsToday, ws.Alive,
			formatOptionalTime(ws.LastSessionAt), derefOr(ws.Error, "-"))
	}

	_ = tw.Flush()
}

func printStopReport(w io.Writer, report *scheduler.StopReport) {
	st := newStyles()

	fmt.Fprintf(w, "%s %d device loop(s) stopped\n", st.success.Render("Scheduler stopped:"), len(report.Workers))

	if len(report.TimedOut) > 0 {
		fmt.Fprintf(w, "%s %v\n", st.warning.Render("Did not finish within the join timeout:"), report.TimedOut)
	}
}

func printDevices(w io.Writer, devices []*models.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(w, newStyles().muted.Render("No devices registered."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUDID\tPORT\tSTATUS\tLAST HEARTBEAT")

	for _, d := range devices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			d.ID, d.DisplayName(), d.UDID, d.Port(), d.Status, formatOptionalTime(d.LastHeartbeatAt))
	}

	_ = tw.Flush()
}

func printEvents(w io.Writer, list []*models.Event) {
	if len(list) == 0 {
		fmt.Fprintln(w, newStyles().muted.Render("No events."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSEVERITY\tTYPE\tDEVICE\tRESOLVED\tMESSAGE")

	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			strconv.FormatInt(e.ID, 10), formatTimestamp(e.Timestamp), e.Severity, e.EventType,
			derefOr(e.DeviceID, "-"), e.Resolved, e.Message)
	}

	_ = tw.Flush()
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return formatTimestamp(*t)
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}

	return *s
}
