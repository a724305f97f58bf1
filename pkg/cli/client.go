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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ehmo/sovi/pkg/api"
	sovihttp "github.com/ehmo/sovi/pkg/http"
	"github.com/ehmo/sovi/pkg/models"
	"github.com/ehmo/sovi/pkg/scheduler"
)

const (
	defaultClientTimeout = 15 * time.Second
	maxErrorBody         = 4096
)

// APIClient talks to the HTTP API of a running "scheduler start" process.
type APIClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewAPIClient builds a client. A nil httpClient uses a 15 second timeout.
// The stop call waits for every loop to join, so callers may want a longer one.
func NewAPIClient(baseURL, apiKey string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultClientTimeout}
	}

	return &APIClient{
		baseURL: normaliseAPIURL(baseURL),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// Status fetches the scheduler status snapshot.
func (c *APIClient) Status(ctx context.Context) (*models.SchedulerStatus, error) {
	var status models.SchedulerStatus
	if err := c.do(ctx, http.MethodGet, "/api/scheduler/status", &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// Stop asks the running process to stop its worker loops.
func (c *APIClient) Stop(ctx context.Context) (*scheduler.StopReport, error) {
	var report scheduler.StopReport
	if err := c.do(ctx, http.MethodPost, "/api/scheduler/stop", &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set(sovihttp.APIKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errAPIRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := readErrorBody(resp.Body)
		if message == "" {
			message = resp.Status
		}

		return fmt.Errorf("%w: %s", errAPIRequest, message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}

	var apiErr api.ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return apiErr.Message
	}

	return strings.TrimSpace(string(body))
}

func normaliseAPIURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}

	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}

	return strings.TrimRight(trimmed, "/")
}
