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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationJSON(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"45s"`), &d))
	assert.Equal(t, Duration(45*time.Second), d)

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, Duration(time.Second), d)

	require.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
	require.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(out))
}

func TestSessionsPerDayTarget(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	assert.Equal(t, 32, cfg.SessionsPerDayTarget())

	cfg.WarmDuration = Duration(45 * time.Minute)
	assert.Equal(t, 24, cfg.SessionsPerDayTarget())

	cfg.WarmDuration = 0
	cfg.SessionOverhead = 0
	assert.Equal(t, 0, cfg.SessionsPerDayTarget())
}

func TestSchedulerConfigValidate(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	require.NoError(t, cfg.Validate())

	bad := DefaultSchedulerConfig()
	bad.Cooldown = 0
	require.Error(t, bad.Validate())

	bad = DefaultSchedulerConfig()
	bad.DefaultPlatform = PlatformReddit
	require.ErrorIs(t, bad.Validate(), errDefaultPlatform)

	bad = DefaultSchedulerConfig()
	bad.Platforms = []Platform{"myspace"}
	bad.DefaultPlatform = "myspace"
	require.ErrorIs(t, bad.Validate(), ErrUnknownPlatform)

	bad = DefaultSchedulerConfig()
	bad.Platforms = nil
	require.ErrorIs(t, bad.Validate(), errNoPlatforms)

	bad = DefaultSchedulerConfig()
	bad.Timezone = "Mars/Olympus"
	require.ErrorIs(t, bad.Validate(), errInvalidTimezone)
}

func TestSchedulerConfigClaimTTLMustOutlastSession(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	cfg.WarmDuration = Duration(30 * time.Minute)
	cfg.SessionOverhead = Duration(15 * time.Minute)
	cfg.InstallTimeout = Duration(2 * time.Minute)

	cfg.ClaimTTL = Duration(45 * time.Minute)
	require.ErrorIs(t, cfg.Validate(), errClaimTTLTooShort)

	cfg.ClaimTTL = Duration(47 * time.Minute)
	require.ErrorIs(t, cfg.Validate(), errClaimTTLTooShort)

	cfg.ClaimTTL = Duration(48 * time.Minute)
	require.NoError(t, cfg.Validate())

	// Longer sessions need a longer lease even when the default TTL was fine before.
	cfg.ClaimTTL = DefaultSchedulerConfig().ClaimTTL
	cfg.WarmDuration = Duration(2 * time.Hour)
	require.ErrorIs(t, cfg.Validate(), errClaimTTLTooShort)
}

func TestConfigValidateRequiresDatabase(t *testing.T) {
	t.Setenv("SOVI_MASTER_KEY", "")

	cfg := DefaultConfig()
	require.ErrorIs(t, cfg.Validate(), errDatabaseConfigRequired)

	cfg.Database = &DatabaseConfig{Host: "localhost", Database: "sovi"}
	require.NoError(t, cfg.Validate())
}

func TestMasterKeyBytes(t *testing.T) {
	t.Setenv("SOVI_MASTER_KEY", "")

	cfg := DefaultConfig()

	key, err := cfg.MasterKeyBytes()
	require.NoError(t, err)
	assert.Nil(t, key)

	cfg.MasterKey = base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = cfg.MasterKeyBytes()
	require.ErrorIs(t, err, errInvalidMasterKey)

	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}

	t.Setenv("SOVI_MASTER_KEY", base64.StdEncoding.EncodeToString(raw))

	key, err = cfg.MasterKeyBytes()
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}
