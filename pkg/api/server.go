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

// Package api exposes scheduler status and control over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ehmo/sovi/pkg/db"
	sovihttp "github.com/ehmo/sovi/pkg/http"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
	"github.com/ehmo/sovi/pkg/scheduler"
)

const defaultResolver = "api"

// Controller is the part of the scheduler the API drives.
type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (*scheduler.StopReport, error)
	Status() *models.SchedulerStatus
}

// Server routes the HTTP API.
type Server struct {
	router     *mux.Router
	controller Controller
	events     db.EventStore
	devices    db.DeviceLedger
	logger     logger.Logger
	apiKey     string
	now        func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey requires the given key on every /api request.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// WithDevices enables the device listing endpoint.
func WithDevices(devices db.DeviceLedger) Option {
	return func(s *Server) {
		s.devices = devices
	}
}

// NewServer builds a Server.
func NewServer(controller Controller, store db.EventStore, log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.NewTestLogger()
	}

	s := &Server{
		router:     mux.NewRouter(),
		controller: controller,
		events:     store,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}

	for _, o := range opts {
		o(s)
	}

	s.setupRoutes()

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(sovihttp.RequestLogger(s.logger))

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	protected := s.router.PathPrefix("/api").Subrouter()
	protected.Use(sovihttp.APIKeyMiddleware(s.apiKey, s.logger))

	protected.HandleFunc("/scheduler/status", s.getStatus).Methods(http.MethodGet)
	protected.HandleFunc("/scheduler/start", s.startScheduler).Methods(http.MethodPost)
	protected.HandleFunc("/scheduler/stop", s.stopScheduler).Methods(http.MethodPost)
	protected.HandleFunc("/events", s.listEvents).Methods(http.MethodGet)
	protected.HandleFunc("/events/{id}/resolve", s.resolveEvent).Methods(http.MethodPost)
	protected.HandleFunc("/devices", s.listDevices).Methods(http.MethodGet)
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) startScheduler(w http.ResponseWriter, r *http.Request) {
	err := s.controller.Start(r.Context())

	switch {
	case errors.Is(err, scheduler.ErrAlreadyRunning), errors.Is(err, scheduler.ErrLoopsDraining):
		writeError(w, err.Error(), http.StatusConflict)
	case err != nil:
		s.logger.Error().Err(err).Msg("Scheduler start failed")
		writeError(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, s.controller.Status())
	}
}

func (s *Server) stopScheduler(w http.ResponseWriter, r *http.Request) {
	report, err := s.controller.Stop(r.Context())

	switch {
	case errors.Is(err, scheduler.ErrNotRunning):
		writeError(w, err.Error(), http.StatusConflict)
	case err != nil:
		s.logger.Error().Err(err).Msg("Scheduler stop failed")
		writeError(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := s.events.ListEvents(r.Context(), filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Listing events failed")
		writeError(w, "failed to list events", http.StatusInternalServerError)

		return
	}

	if list == nil {
		list = []*models.Event{}
	}

	writeJSON(w, http.StatusOK, list)
}

type resolveRequest struct {
	ResolvedBy string `json:"resolved_by"`
}

func (s *Server) resolveEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid event id", http.StatusBadRequest)
		return
	}

	var req resolveRequest

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	if req.ResolvedBy == "" {
		req.ResolvedBy = defaultResolver
	}

	err = s.events.ResolveEvent(r.Context(), id, req.ResolvedBy, s.now())

	switch {
	case errors.Is(err, db.ErrEventNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case err != nil:
		s.logger.Error().Err(err).Int64("event_id", id).Msg("Resolving event failed")
		writeError(w, "failed to resolve event", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "resolved": true, "resolved_by": req.ResolvedBy})
	}
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	if s.devices == nil {
		writeError(w, "device listing not configured", http.StatusNotImplemented)
		return
	}

	devices, err := s.devices.ListDevices(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Listing devices failed")
		writeError(w, "failed to list devices", http.StatusInternalServerError)

		return
	}

	if devices == nil {
		devices = []*models.Device{}
	}

	writeJSON(w, http.StatusOK, devices)
}
