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

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	require.Error(t, err)

	l, err := New(&Config{Level: "warn"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestComponentLoggerAddsField(t *testing.T) {
	var buf bytes.Buffer

	base := NewWithWriter(&buf, zerolog.InfoLevel)
	l := Component(base, "scheduler")

	l.Info().Str("device_id", "d1").Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "scheduler", line["component"])
	assert.Equal(t, "d1", line["device_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer

	l := NewWithWriter(&buf, zerolog.InfoLevel)

	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	l.SetDebug(true)
	l.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestTestLoggerDiscards(t *testing.T) {
	l := NewTestLogger()
	l.Error().Msg("nothing")
	assert.NotNil(t, l.WithComponent("x"))
}

func TestInitializeMetricsDisabled(t *testing.T) {
	_, err := InitializeMetrics(context.Background(), MetricsConfig{})
	require.ErrorIs(t, err, ErrOTelMetricsDisabled)
	require.NoError(t, ShutdownMetrics(context.Background()))
}

func TestDefaultConfigReadsEnv(t *testing.T) {
	t.Setenv("SOVI_LOG_LEVEL", "")
	t.Setenv("SOVI_DEBUG", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DEBUG", "yes")

	cfg := DefaultConfig()
	assert.Equal(t, "error", cfg.Level)
	assert.True(t, cfg.Debug)
}

func TestDefaultConfigPrefersSoviEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SOVI_LOG_LEVEL", "warn")
	t.Setenv("DEBUG", "true")
	t.Setenv("SOVI_DEBUG", "off")

	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.False(t, cfg.Debug)
}

func TestDefaultConfigLogsToStderr(t *testing.T) {
	t.Setenv("SOVI_LOG_OUTPUT", "")
	t.Setenv("LOG_OUTPUT", "")

	assert.Equal(t, "stderr", DefaultConfig().Output)
}
