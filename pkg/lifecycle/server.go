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
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ehmo/sovi/pkg/logger"
)

const defaultShutdownTimeout = 45 * time.Second

// Service is a long-running component with explicit start and stop.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ServerOptions configures RunServer.
type ServerOptions struct {
	ServiceName     string
	Service         Service
	HTTPServer      *http.Server
	ShutdownTimeout time.Duration
	Logger          logger.Logger
	// Signals defaults to SIGINT and SIGTERM.
	Signals []os.Signal
}

// RunServer starts the service and optional HTTP server, then blocks until ctx
// is cancelled, a signal arrives, or the HTTP server fails. Shutdown stops the
// HTTP server first so no new control requests race the service stop.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	signals := opts.Signals
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	ctx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()

	if err := opts.Service.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s: %w", opts.ServiceName, err)
	}

	serverErr := make(chan error, 1)

	if opts.HTTPServer != nil {
		go func() {
			log.Info().Str("addr", opts.HTTPServer.Addr).Msg("HTTP server listening")

			if err := opts.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	var runErr error

	select {
	case <-ctx.Done():
		log.Info().Str("service", opts.ServiceName).Msg("Shutdown requested")
	case err := <-serverErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if opts.HTTPServer != nil {
		if err := opts.HTTPServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("HTTP server shutdown")
		}
	}

	if err := opts.Service.Stop(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to stop %s: %w", opts.ServiceName, err))
	}

	return runErr
}
