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
	"os"
	"strings"
)

// envPrefix namespaces the logging overrides. The bare names are still read
// when the prefixed one is unset.
const envPrefix = "SOVI_"

// DefaultConfig logs at info level to stderr, keeping stdout free for the
// status tables the CLI prints. SOVI_LOG_LEVEL, SOVI_DEBUG, SOVI_LOG_OUTPUT
// and SOVI_LOG_TIME_FORMAT override the defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:      envOrDefault("LOG_LEVEL", "info"),
		Debug:      envBoolOrDefault("DEBUG", false),
		Output:     envOrDefault("LOG_OUTPUT", "stderr"),
		TimeFormat: envOrDefault("LOG_TIME_FORMAT", ""),
	}
}

// lookupEnv prefers SOVI_<name> over <name>.
func lookupEnv(name string) string {
	if value := os.Getenv(envPrefix + name); value != "" {
		return value
	}

	return os.Getenv(name)
}

func envOrDefault(name, defaultValue string) string {
	if value := lookupEnv(name); value != "" {
		return value
	}

	return defaultValue
}

func envBoolOrDefault(name string, defaultValue bool) bool {
	value := lookupEnv(name)
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
