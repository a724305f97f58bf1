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

// Package wda implements the automation capability over the WebDriverAgent HTTP API.
package wda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ehmo/sovi/pkg/logger"
)

const defaultRequestTimeout = 60 * time.Second

// Installed and running app states reported by /wda/apps/state.
const (
	AppStateUnknown      = 0
	AppStateNotRunning   = 1
	AppStateRunningFront = 4
)

var (
	errUnexpectedStatus = errors.New("wda: unexpected response status")
	errNoSessionID      = errors.New("wda: response carried no session id")
)

// ClientConfig controls how the WDA HTTP client behaves.
type ClientConfig struct {
	// Host is where the per-device WDA ports are forwarded, usually localhost.
	Host    string
	Timeout time.Duration
	Logger  logger.Logger
	HTTP    *http.Client
}

// Client speaks the WebDriverAgent JSON wire protocol.
type Client struct {
	host   string
	client *http.Client
	logger logger.Logger
}

// NewClient builds a Client.
func NewClient(cfg ClientConfig) *Client {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Client{host: host, client: httpClient, logger: log}
}

// BaseURL is the WDA root for a forwarded device port.
func (c *Client) BaseURL(port int) string {
	return "http://" + net.JoinHostPort(c.host, strconv.Itoa(port))
}

// Status is the interesting part of GET /status.
type Status struct {
	Ready     bool   `json:"ready"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// Status fetches the server status.
func (c *Client) Status(ctx context.Context, base string) (*Status, error) {
	var resp struct {
		Value Status `json:"value"`
	}

	if err := c.do(ctx, http.MethodGet, base, "/status", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Value, nil
}

// CreateSession opens a new WDA session and returns its id.
func (c *Client) CreateSession(ctx context.Context, base string) (string, error) {
	body := map[string]interface{}{
		"capabilities": map[string]interface{}{"alwaysMatch": map[string]interface{}{}},
	}

	var resp struct {
		SessionID string `json:"sessionId"`
		Value     struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}

	if err := c.do(ctx, http.MethodPost, base, "/session", body, &resp); err != nil {
		return "", err
	}

	id := resp.SessionID
	if id == "" {
		id = resp.Value.SessionID
	}

	if id == "" {
		return "", errNoSessionID
	}

	return id, nil
}

// DeleteSession closes a session.
func (c *Client) DeleteSession(ctx context.Context, base, sessionID string) error {
	return c.do(ctx, http.MethodDelete, base, "/session/"+sessionID, nil, nil)
}

// TerminateApp stops an app if it is running.
func (c *Client) TerminateApp(ctx context.Context, base, sessionID, bundleID string) error {
	return c.appCall(ctx, base, sessionID, "terminate", bundleID, nil)
}

// UninstallApp removes an app from the device.
func (c *Client) UninstallApp(ctx context.Context, base, sessionID, bundleID string) error {
	return c.appCall(ctx, base, sessionID, "uninstall", bundleID, nil)
}

// ActivateApp launches or foregrounds an app.
func (c *Client) ActivateApp(ctx context.Context, base, sessionID, bundleID string) error {
	return c.appCall(ctx, base, sessionID, "activate", bundleID, nil)
}

// AppState reports the XCUIApplicationState of an app.
func (c *Client) AppState(ctx context.Context, base, sessionID, bundleID string) (int, error) {
	var resp struct {
		Value int `json:"value"`
	}

	if err := c.appCall(ctx, base, sessionID, "state", bundleID, &resp); err != nil {
		return AppStateUnknown, err
	}

	return resp.Value, nil
}

// PressButton presses a hardware button such as "home".
func (c *Client) PressButton(ctx context.Context, base, sessionID, name string) error {
	return c.do(ctx, http.MethodPost, base, "/session/"+sessionID+"/wda/pressButton",
		map[string]string{"name": name}, nil)
}

func (c *Client) appCall(ctx context.Context, base, sessionID, action, bundleID string, out interface{}) error {
	return c.do(ctx, http.MethodPost, base, "/session/"+sessionID+"/wda/apps/"+action,
		map[string]string{"bundleId": bundleID}, out)
}

func (c *Client) do(ctx context.Context, method, base, path string, body, out interface{}) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("wda: marshal request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return fmt.Errorf("wda: create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("wda: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

		return fmt.Errorf("%w %d on %s %s: %s",
			errUnexpectedStatus, resp.StatusCode, method, path, strings.TrimSpace(string(msg)))
	}

	c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("WDA request")

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wda: decode %s response: %w", path, err)
	}

	return nil
}
