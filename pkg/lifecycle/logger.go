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

package lifecycle

import (
	"context"
	"fmt"

	"github.com/ehmo/sovi/pkg/logger"
)

// CreateLogger creates a logger instance that can be injected into services.
func CreateLogger(config *logger.Config) (logger.Logger, error) {
	log, err := logger.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return log, nil
}

// CreateComponentLogger creates a logger tagged with a component field.
func CreateComponentLogger(_ context.Context, component string, config *logger.Config) (logger.Logger, error) {
	log, err := CreateLogger(config)
	if err != nil {
		return nil, err
	}

	return logger.Component(log, component), nil
}
