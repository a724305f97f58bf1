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

package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ehmo/sovi/pkg/logger"
)

var (
	errInvalidDuration        = errors.New("invalid duration")
	errDatabaseConfigRequired = errors.New("database configuration is required")
	errNonPositiveDuration    = errors.New("duration must be positive")
	errNoPlatforms            = errors.New("scheduler.platforms must not be empty")
	errDefaultPlatform        = errors.New("scheduler.default_platform must be one of scheduler.platforms")
	errInvalidTimezone        = errors.New("scheduler.timezone is not a valid IANA location")
	errInvalidMasterKey       = errors.New("master_key must be base64 encoding of 32 bytes")
	errClaimTTLTooShort       = errors.New("scheduler.claim_ttl must exceed install_timeout + warm_duration + session_overhead")
)

// Duration wraps time.Duration so configs can use "30s" style strings.
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// MarshalJSON renders the duration as a Go duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// DatabaseConfig describes the Postgres cluster holding the ledgers.
type DatabaseConfig struct {
	URL               string            `json:"url,omitempty"`
	Host              string            `json:"host"`
	Port              int               `json:"port"`
	Database          string            `json:"database"`
	Username          string            `json:"username"`
	Password          string            `json:"password"`
	SSLMode           string            `json:"ssl_mode,omitempty"`
	ApplicationName   string            `json:"application_name,omitempty"`
	MaxConnections    int32             `json:"max_connections,omitempty"`
	MinConnections    int32             `json:"min_connections,omitempty"`
	MaxConnLifetime   Duration          `json:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod Duration          `json:"health_check_period,omitempty"`
	StatementTimeout  Duration          `json:"statement_timeout,omitempty"`
	RuntimeParams     map[string]string `json:"runtime_params,omitempty"`
}

// SchedulerConfig tunes the per-device worker loops.
type SchedulerConfig struct {
	WarmDuration          Duration   `json:"warm_duration"`
	SessionOverhead       Duration   `json:"session_overhead"`
	ReadinessTimeout      Duration   `json:"readiness_timeout"`
	ReadinessPollInterval Duration   `json:"readiness_poll_interval"`
	InstallTimeout        Duration   `json:"install_timeout"`
	ErrorBackoff          Duration   `json:"error_backoff"`
	IdleSleep             Duration   `json:"idle_sleep"`
	Cooldown              Duration   `json:"cooldown"`
	JoinTimeout           Duration   `json:"join_timeout"`
	ClaimTTL              Duration   `json:"claim_ttl"`
	Platforms             []Platform `json:"platforms"`
	DefaultPlatform       Platform   `json:"default_platform"`
	// AccountTargetPerPlatform caps creation tasks; zero means no cap.
	AccountTargetPerPlatform int    `json:"account_target_per_platform"`
	Timezone                 string `json:"timezone"`
}

// DefaultSchedulerConfig mirrors the production timings: 30 minute warm-up
// sessions plus 15 minutes of reset/install/login overhead.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		WarmDuration:          Duration(30 * time.Minute),
		SessionOverhead:       Duration(15 * time.Minute),
		ReadinessTimeout:      Duration(30 * time.Second),
		ReadinessPollInterval: Duration(2 * time.Second),
		InstallTimeout:        Duration(2 * time.Minute),
		ErrorBackoff:          Duration(60 * time.Second),
		IdleSleep:             Duration(30 * time.Second),
		Cooldown:              Duration(30 * time.Second),
		JoinTimeout:           Duration(30 * time.Second),
		ClaimTTL:              Duration(2 * time.Hour),
		Platforms:             []Platform{PlatformTikTok, PlatformInstagram},
		DefaultPlatform:       PlatformTikTok,
		Timezone:              "UTC",
	}
}

// SessionsPerDayTarget is how many full sessions fit into a day per device.
func (c *SchedulerConfig) SessionsPerDayTarget() int {
	total := time.Duration(c.WarmDuration) + time.Duration(c.SessionOverhead)
	if total <= 0 {
		return 0
	}

	return int((24 * time.Hour) / total)
}

// Location resolves the configured timezone, falling back to UTC.
func (c *SchedulerConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// Validate checks the scheduler timings and platform set.
func (c *SchedulerConfig) Validate() error {
	durations := map[string]Duration{
		"warm_duration":           c.WarmDuration,
		"readiness_timeout":       c.ReadinessTimeout,
		"readiness_poll_interval": c.ReadinessPollInterval,
		"install_timeout":         c.InstallTimeout,
		"error_backoff":           c.ErrorBackoff,
		"idle_sleep":              c.IdleSleep,
		"cooldown":                c.Cooldown,
		"join_timeout":            c.JoinTimeout,
		"claim_ttl":               c.ClaimTTL,
	}

	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("scheduler.%s: %w", name, errNonPositiveDuration)
		}
	}

	// A lease that lapses mid-session lets a second device claim the account.
	if sessionSpan := c.InstallTimeout + c.WarmDuration + c.SessionOverhead; c.ClaimTTL <= sessionSpan {
		return fmt.Errorf("%w: %s <= %s", errClaimTTLTooShort,
			time.Duration(c.ClaimTTL), time.Duration(sessionSpan))
	}

	if len(c.Platforms) == 0 {
		return errNoPlatforms
	}

	found := false

	for _, p := range c.Platforms {
		if !p.Valid() {
			return fmt.Errorf("scheduler.platforms: %w: %q", ErrUnknownPlatform, p)
		}

		if p == c.DefaultPlatform {
			found = true
		}
	}

	if !found {
		return errDefaultPlatform
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: %w", errInvalidTimezone, err)
		}
	}

	return nil
}

// NATSConfig enables fan-out of fleet events to JetStream.
type NATSConfig struct {
	Enabled       bool   `json:"enabled"`
	URL           string `json:"url"`
	Stream        string `json:"stream"`
	SubjectPrefix string `json:"subject_prefix"`
	Domain        string `json:"domain,omitempty"`
}

// MetricsConfig points the OTLP metrics exporter at a collector.
type MetricsConfig struct {
	Enabled        bool              `json:"enabled"`
	Endpoint       string            `json:"endpoint"`
	Insecure       bool              `json:"insecure"`
	Headers        map[string]string `json:"headers,omitempty"`
	ExportInterval Duration          `json:"export_interval,omitempty"`
}

// AutomationConfig configures the WebDriverAgent transport.
type AutomationConfig struct {
	WDAHost        string   `json:"wda_host"`
	RequestTimeout Duration `json:"request_timeout"`
}

// APIConfig configures the HTTP status/control surface.
type APIConfig struct {
	ListenAddr string `json:"listen_addr"`
	// APIKey, when set, is required in the X-API-Key header.
	APIKey string `json:"api_key,omitempty"`
}

// Config is the top level configuration for the sovi process.
type Config struct {
	Database   *DatabaseConfig  `json:"database"`
	Logging    *logger.Config   `json:"logging"`
	Scheduler  SchedulerConfig  `json:"scheduler"`
	NATS       NATSConfig       `json:"nats"`
	Metrics    MetricsConfig    `json:"metrics"`
	Automation AutomationConfig `json:"automation"`
	API        APIConfig        `json:"api"`
	MasterKey  string           `json:"master_key,omitempty"`
}

// DefaultConfig returns a config with every optional block populated.
func DefaultConfig() Config {
	return Config{
		Scheduler: DefaultSchedulerConfig(),
		NATS: NATSConfig{
			Stream:        "sovi-events",
			SubjectPrefix: "sovi.events",
		},
		Automation: AutomationConfig{
			WDAHost:        "localhost",
			RequestTimeout: Duration(60 * time.Second),
		},
		API: APIConfig{ListenAddr: "127.0.0.1:8090"},
	}
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if c.Database == nil {
		return errDatabaseConfigRequired
	}

	if err := c.Scheduler.Validate(); err != nil {
		return err
	}

	if _, err := c.MasterKeyBytes(); err != nil {
		return err
	}

	return nil
}

// MasterKeyBytes decodes the credential master key, preferring SOVI_MASTER_KEY.
// A nil slice with nil error means no key is configured.
func (c *Config) MasterKeyBytes() ([]byte, error) {
	raw := os.Getenv("SOVI_MASTER_KEY")
	if raw == "" {
		raw = c.MasterKey
	}

	if raw == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil, errInvalidMasterKey
	}

	return key, nil
}
