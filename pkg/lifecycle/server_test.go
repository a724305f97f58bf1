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
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmo/sovi/pkg/logger"
)

type fakeService struct {
	startErr error
	started  atomic.Bool
	stopped  atomic.Bool
}

func (f *fakeService) Start(context.Context) error {
	f.started.Store(true)
	return f.startErr
}

func (f *fakeService) Stop(context.Context) error {
	f.stopped.Store(true)
	return nil
}

func TestRunServerStopsOnContextCancel(t *testing.T) {
	svc := &fakeService{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- RunServer(ctx, &ServerOptions{ServiceName: "test", Service: svc, Logger: logger.NewTestLogger()})
	}()

	require.Eventually(t, svc.started.Load, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunServer did not return")
	}

	assert.True(t, svc.stopped.Load())
}

func TestRunServerStartFailure(t *testing.T) {
	svc := &fakeService{startErr: errors.New("boom")}

	err := RunServer(context.Background(), &ServerOptions{ServiceName: "test", Service: svc})
	require.Error(t, err)
	assert.False(t, svc.stopped.Load())
}

func TestCreateComponentLogger(t *testing.T) {
	l, err := CreateComponentLogger(context.Background(), "scheduler", &logger.Config{Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = CreateComponentLogger(context.Background(), "scheduler", &logger.Config{Level: "nope"})
	require.Error(t, err)
}
