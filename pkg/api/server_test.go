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

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmo/sovi/pkg/db"
	sovihttp "github.com/ehmo/sovi/pkg/http"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
	"github.com/ehmo/sovi/pkg/scheduler"
)

type fakeController struct {
	running  bool
	startErr error
}

func (f *fakeController) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}

	if f.running {
		return scheduler.ErrAlreadyRunning
	}

	f.running = true

	return nil
}

func (f *fakeController) Stop(context.Context) (*scheduler.StopReport, error) {
	if !f.running {
		return nil, scheduler.ErrNotRunning
	}

	f.running = false

	return &scheduler.StopReport{Workers: []models.WorkerStatus{{DeviceName: "iPhone A", Phase: models.PhaseStopped}}}, nil
}

func (f *fakeController) Status() *models.SchedulerStatus {
	status := &models.SchedulerStatus{
		Running:              f.running,
		SessionsPerDayTarget: 32,
		Workers:              map[string]models.WorkerStatus{},
	}

	if f.running {
		status.DeviceCount = 1
		status.Workers["dev-1"] = models.WorkerStatus{DeviceName: "iPhone A", Phase: models.PhaseIdle, Alive: true}
	}

	return status
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func TestSchedulerLifecycleEndpoints(t *testing.T) {
	ctl := &fakeController{}
	h := NewServer(ctl, db.NewMemory(), logger.NewTestLogger()).Handler()

	rr := do(t, h, http.MethodGet, "/api/scheduler/status", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"running":false,"device_count":0,"sessions_per_day_target":32,"workers":{}}`, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/api/scheduler/start", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, true, status["running"])

	worker := status["workers"].(map[string]interface{})["dev-1"].(map[string]interface{})
	assert.ElementsMatch(t,
		[]string{"device_name", "phase", "current_account", "sessions_today", "last_session_at", "alive", "error"},
		keys(worker))

	rr = do(t, h, http.MethodPost, "/api/scheduler/start", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/scheduler/stop", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"phase":"stopped"`)

	rr = do(t, h, http.MethodPost, "/api/scheduler/stop", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

func TestEventsEndpoints(t *testing.T) {
	store := db.NewMemory()
	ctx := context.Background()

	device := "dev-1"

	_, err := store.InsertEvent(ctx, &models.Event{Category: "device", Severity: models.SeverityCritical,
		EventType: models.EventDeviceDisconnected, DeviceID: &device, Message: "WDA not responding"})
	require.NoError(t, err)

	id, err := store.InsertEvent(ctx, &models.Event{Category: "scheduler", Severity: models.SeverityInfo,
		EventType: models.EventSchedulerStarted, Message: "started"})
	require.NoError(t, err)

	h := NewServer(&fakeController{}, store, nil).Handler()

	rr := do(t, h, http.MethodGet, "/api/events?severity=critical&resolved=false", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var list []models.Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, models.EventDeviceDisconnected, list[0].EventType)

	rr = do(t, h, http.MethodGet, "/api/events?severity=loud", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/events?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/events?category=nothing", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/api/events/"+itoa(id)+"/resolve", `{"resolved_by":"oncall"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	resolved, err := store.ListEvents(ctx, &models.EventFilter{Resolved: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "oncall", *resolved[0].ResolvedBy)

	rr = do(t, h, http.MethodPost, "/api/events/999/resolve", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/events/abc/resolve", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDevicesEndpoint(t *testing.T) {
	store := db.NewMemory()

	_, err := store.RegisterDevice(context.Background(), &models.Device{UDID: "00008101-000A", Name: "iPhone A"})
	require.NoError(t, err)

	h := NewServer(&fakeController{}, store, nil).Handler()
	rr := do(t, h, http.MethodGet, "/api/devices", "")
	assert.Equal(t, http.StatusNotImplemented, rr.Code)

	h = NewServer(&fakeController{}, store, nil, WithDevices(store)).Handler()
	rr = do(t, h, http.MethodGet, "/api/devices", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"udid":"00008101-000A"`)
}

func TestAPIKeyProtectsAPIButNotHealth(t *testing.T) {
	h := NewServer(&fakeController{}, db.NewMemory(), nil, WithAPIKey("k")).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/scheduler/status", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/scheduler/status", nil)
	req.Header.Set(sovihttp.APIKeyHeader, "k")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func boolPtr(b bool) *bool { return &b }
