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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsScheduler(t *testing.T) {
	t.Setenv("SOVI_API_KEY", "from-env")

	cfg, err := ParseFlags([]string{"scheduler", "status", "-json", "-api", "10.0.0.5:8090"})
	require.NoError(t, err)

	assert.Equal(t, CmdScheduler, cfg.SubCmd)
	assert.Equal(t, actionStatus, cfg.Action)
	assert.True(t, cfg.JSON)
	assert.Equal(t, "10.0.0.5:8090", cfg.APIURL)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, defaultConfigPath, cfg.ConfigFile)
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	_, err := ParseFlags([]string{"deploy"})
	require.ErrorIs(t, err, errUnknownCommand)

	_, err = ParseFlags([]string{"scheduler"})
	require.ErrorIs(t, err, errMissingAction)

	_, err = ParseFlags([]string{"scheduler", "restart"})
	require.ErrorIs(t, err, errUnknownAction)

	_, err = ParseFlags([]string{"device", "list", "-bogus"})
	require.Error(t, err)
}

func TestParseFlagsHelpAndVersion(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.True(t, cfg.Help)

	cfg, err = ParseFlags([]string{"--help"})
	require.NoError(t, err)
	assert.Equal(t, CmdHelp, cfg.SubCmd)

	cfg, err = ParseFlags([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, CmdVersion, cfg.SubCmd)

	var buf bytes.Buffer
	ShowHelp(&buf)
	assert.Contains(t, buf.String(), "scheduler start")
}

func TestParseFlagsDeviceRegister(t *testing.T) {
	cfg, err := ParseFlags([]string{"device", "register", "-name", "iPhone 12 #3", "-udid", "00008101-000A", "-port", "8103"})
	require.NoError(t, err)

	assert.Equal(t, actionRegister, cfg.Action)
	assert.Equal(t, "iPhone 12 #3", cfg.DeviceName)
	assert.Equal(t, "00008101-000A", cfg.DeviceUDID)
	assert.Equal(t, 8103, cfg.DevicePort)

	_, err = ParseFlags([]string{"device", "register", "-name", "no udid"})
	require.ErrorIs(t, err, errUDIDRequired)
}

func TestParseFlagsEvents(t *testing.T) {
	cfg, err := ParseFlags([]string{"events", "list", "-severity", "critical", "-unresolved"})
	require.NoError(t, err)
	assert.Equal(t, "critical", cfg.EventSeverity)
	assert.True(t, cfg.EventUnresolved)
	assert.Equal(t, 100, cfg.EventLimit)

	cfg, err = ParseFlags([]string{"events", "resolve", "42", "-by", "oncall"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.EventID)
	assert.Equal(t, "oncall", cfg.ResolvedBy)

	cfg, err = ParseFlags([]string{"events", "resolve", "-id", "7"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.EventID)
	assert.Equal(t, defaultResolvedBy, cfg.ResolvedBy)

	_, err = ParseFlags([]string{"events", "resolve"})
	require.ErrorIs(t, err, errEventIDRequired)

	_, err = ParseFlags([]string{"events", "resolve", "abc"})
	require.ErrorIs(t, err, errEventIDRequired)
}

func TestNormaliseAPIURL(t *testing.T) {
	assert.Equal(t, defaultAPIURL, normaliseAPIURL(""))
	assert.Equal(t, "http://host:8090", normaliseAPIURL("host:8090/"))
	assert.Equal(t, "https://sovi.example", normaliseAPIURL("https://sovi.example"))
}
