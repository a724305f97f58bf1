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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ehmo/sovi/pkg/models"
)

var errInvalidQuery = errors.New("invalid query parameter")

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Message: message, Status: status})
}

func parseEventFilter(r *http.Request) (*models.EventFilter, error) {
	q := r.URL.Query()

	filter := &models.EventFilter{
		Severity:  models.Severity(q.Get("severity")),
		Category:  q.Get("category"),
		EventType: q.Get("event_type"),
		DeviceID:  q.Get("device_id"),
		AccountID: q.Get("account_id"),
		Limit:     models.DefaultEventLimit,
	}

	switch filter.Severity {
	case "", models.SeverityInfo, models.SeverityWarning, models.SeverityError, models.SeverityCritical:
	default:
		return nil, fmt.Errorf("%w: severity %q", errInvalidQuery, filter.Severity)
	}

	if raw := q.Get("resolved"); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: resolved %q", errInvalidQuery, raw)
		}

		filter.Resolved = &resolved
	}

	if raw := q.Get("after_id"); raw != "" {
		after, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || after < 0 {
			return nil, fmt.Errorf("%w: after_id %q", errInvalidQuery, raw)
		}

		filter.AfterID = after
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("%w: limit %q", errInvalidQuery, raw)
		}

		filter.Limit = limit
	}

	return filter, nil
}
