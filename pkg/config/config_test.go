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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

func TestLoadAndValidateFromFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")
	t.Setenv("SOVI_MASTER_KEY", "")

	path := filepath.Join(t.TempDir(), "sovi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"database": {"host": "db", "database": "sovi"},
		"scheduler": {"idle_sleep": "5s", "account_target_per_platform": 20}
	}`), 0o600))

	cfg := models.DefaultConfig()
	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, models.Duration(5*time.Second), cfg.Scheduler.IdleSleep)
	assert.Equal(t, 20, cfg.Scheduler.AccountTargetPerPlatform)
	// untouched defaults survive
	assert.Equal(t, models.Duration(30*time.Minute), cfg.Scheduler.WarmDuration)
}

func TestLoadAndValidateRunsValidator(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "file")

	path := filepath.Join(t.TempDir(), "sovi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scheduler": {}}`), 0o600))

	cfg := models.DefaultConfig()
	require.Error(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))
}

func TestFileLoaderRejectsMisspelledKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sovi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scheduler": {"warm_duraton": "10m"}}`), 0o600))

	cfg := models.DefaultConfig()
	err := (&FileConfigLoader{}).Load(context.Background(), path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warm_duraton")
	assert.Equal(t, models.Duration(30*time.Minute), cfg.Scheduler.WarmDuration)
}

func TestFileLoaderRejectsTrailingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sovi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api": {"listen_addr": ":9000"}} {"api": {}}`), 0o600))

	cfg := models.DefaultConfig()
	require.ErrorIs(t, (&FileConfigLoader{}).Load(context.Background(), path, &cfg), errTrailingConfigData)
}

func TestLoadAndValidateRejectsUnknownSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "kv")

	cfg := models.DefaultConfig()
	require.ErrorIs(t, NewConfig(nil).LoadAndValidate(context.Background(), "x.json", &cfg), errInvalidConfigSource)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("SOVI_MASTER_KEY", "")
	t.Setenv("SOVI_DATABASE_HOST", "pg.internal")
	t.Setenv("SOVI_DATABASE_PORT", "6543")
	t.Setenv("SOVI_SCHEDULER_COOLDOWN", "45s")
	t.Setenv("SOVI_SCHEDULER_PLATFORMS", "tiktok, reddit")
	t.Setenv("SOVI_NATS_ENABLED", "true")

	cfg := models.DefaultConfig()
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))

	require.NotNil(t, cfg.Database)
	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, models.Duration(45*time.Second), cfg.Scheduler.Cooldown)
	assert.Equal(t, []models.Platform{models.PlatformTikTok, models.PlatformReddit}, cfg.Scheduler.Platforms)
	assert.True(t, cfg.NATS.Enabled)
	assert.Nil(t, cfg.Logging)
}

func TestEnvLoaderRejectsBadValues(t *testing.T) {
	t.Setenv("SOVI_SCHEDULER_COOLDOWN", "soon")

	cfg := models.DefaultConfig()
	err := NewEnvConfigLoader(logger.NewTestLogger(), "SOVI_").Load(context.Background(), "", &cfg)
	require.Error(t, err)

	require.ErrorIs(t, NewEnvConfigLoader(logger.NewTestLogger(), "SOVI_").Load(context.Background(), "", cfg),
		ErrDstMustBeNonNilPointer)
}

func TestEnvLoaderConfigJSON(t *testing.T) {
	t.Setenv("SOVI_CONFIG_JSON", `{"api": {"listen_addr": ":9999"}}`)

	cfg := models.DefaultConfig()
	require.NoError(t, NewEnvConfigLoader(logger.NewTestLogger(), "SOVI_").Load(context.Background(), "", &cfg))
	assert.Equal(t, ":9999", cfg.API.ListenAddr)
}
