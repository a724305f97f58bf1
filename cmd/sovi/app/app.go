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

// Package app wires the sovi process together for each subcommand.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ehmo/sovi/pkg/api"
	"github.com/ehmo/sovi/pkg/automation"
	"github.com/ehmo/sovi/pkg/automation/wda"
	"github.com/ehmo/sovi/pkg/cli"
	"github.com/ehmo/sovi/pkg/config"
	"github.com/ehmo/sovi/pkg/crypto/secrets"
	"github.com/ehmo/sovi/pkg/db"
	"github.com/ehmo/sovi/pkg/events"
	"github.com/ehmo/sovi/pkg/lifecycle"
	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
	"github.com/ehmo/sovi/pkg/natsutil"
	"github.com/ehmo/sovi/pkg/scheduler"
	"github.com/ehmo/sovi/pkg/version"
)

const (
	serviceName       = "sovi-scheduler"
	readHeaderTimeout = 10 * time.Second
	// Stop waits up to the join timeout per loop, so the API client waits longer.
	stopClientTimeout = 5 * time.Minute
)

var errUnhandledCommand = errors.New("unhandled command")

// Run executes the parsed command.
func Run(ctx context.Context, cmd *cli.CmdConfig, out io.Writer) error {
	if cmd.Help {
		cli.ShowHelp(out)
		return nil
	}

	switch cmd.SubCmd {
	case cli.CmdVersion:
		_, err := fmt.Fprintln(out, "sovi", version.GetFullVersion())
		return err
	case cli.CmdScheduler:
		return runScheduler(ctx, cmd, out)
	case cli.CmdMigrate, cli.CmdDevice, cli.CmdEvents:
		return runWithStore(ctx, cmd, out)
	}

	return fmt.Errorf("%w: %s", errUnhandledCommand, cmd.SubCmd)
}

func runScheduler(ctx context.Context, cmd *cli.CmdConfig, out io.Writer) error {
	switch cmd.Action {
	case "status":
		return cli.RunSchedulerStatus(ctx, cli.NewAPIClient(cmd.APIURL, cmd.APIKey, nil), cmd, out)
	case "stop":
		client := cli.NewAPIClient(cmd.APIURL, cmd.APIKey, &http.Client{Timeout: stopClientTimeout})
		return cli.RunSchedulerStop(ctx, client, cmd, out)
	default:
		return serve(ctx, cmd, out)
	}
}

func loadConfig(ctx context.Context, path string) (*models.Config, logger.Logger, error) {
	cfg := models.DefaultConfig()

	if err := config.NewConfig(nil).LoadAndValidate(ctx, path, &cfg); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := lifecycle.CreateComponentLogger(ctx, "sovi", cfg.Logging)
	if err != nil {
		return nil, nil, err
	}

	return &cfg, log, nil
}

func runWithStore(ctx context.Context, cmd *cli.CmdConfig, out io.Writer) error {
	cfg, log, err := loadConfig(ctx, cmd.ConfigFile)
	if err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if cmd.SubCmd == cli.CmdMigrate {
		defer pool.Close()

		applied, err := db.RunMigrations(ctx, pool, log)
		if err != nil {
			return err
		}

		cli.PrintMigrations(out, applied)

		return nil
	}

	store := db.NewPostgres(pool, log)
	defer func() { _ = store.Close() }()

	switch cmd.SubCmd + " " + cmd.Action {
	case "device register":
		return cli.RunDeviceRegister(ctx, store, cmd, out)
	case "device list":
		return cli.RunDeviceList(ctx, store, cmd, out)
	case "events list":
		return cli.RunEventsList(ctx, store, cmd, out)
	case "events resolve":
		return cli.RunEventsResolve(ctx, store, cmd, out, time.Now().UTC())
	}

	return fmt.Errorf("%w: %s %s", errUnhandledCommand, cmd.SubCmd, cmd.Action)
}

// serve runs the scheduler and its HTTP API until a signal arrives.
func serve(ctx context.Context, cmd *cli.CmdConfig, out io.Writer) error {
	cfg, log, err := loadConfig(ctx, cmd.ConfigFile)
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		_, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
			ServiceName:    serviceName,
			ServiceVersion: version.GetVersion(),
			Enabled:        cfg.Metrics.Enabled,
			Endpoint:       cfg.Metrics.Endpoint,
			Insecure:       cfg.Metrics.Insecure,
			Headers:        cfg.Metrics.Headers,
			ExportInterval: time.Duration(cfg.Metrics.ExportInterval),
		})
		if err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
			return err
		}

		defer func() {
			if err := logger.ShutdownMetrics(context.Background()); err != nil {
				log.Warn().Err(err).Msg("Metrics shutdown")
			}
		}()
	}

	pool, err := db.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if _, err := db.RunMigrations(ctx, pool, log); err != nil {
		pool.Close()
		return err
	}

	store := db.NewPostgres(pool, log)
	defer func() { _ = store.Close() }()

	vault, err := newVault(cfg, log)
	if err != nil {
		return err
	}

	emitter, closeNATS, err := newEmitter(ctx, cfg, store, log)
	if err != nil {
		return err
	}
	defer closeNATS()

	wdaLog := logger.Component(log, "wda")
	client := wda.NewClient(wda.ClientConfig{
		Host:    cfg.Automation.WDAHost,
		Timeout: time.Duration(cfg.Automation.RequestTimeout),
		Logger:  wdaLog,
	})

	// Per-platform playbooks are registered by the deployment; until one is,
	// sessions on that platform fail at install and back off.
	driver := wda.NewDriver(client, automation.NewPlaybooks(), wdaLog)

	sched, err := scheduler.New(&cfg.Scheduler, scheduler.Deps{
		Accounts:   store,
		Devices:    store,
		Automation: driver,
		Vault:      vault,
		Emitter:    emitter,
		Logger:     logger.Component(log, "scheduler"),
	})
	if err != nil {
		return err
	}

	server := api.NewServer(sched, store, logger.Component(log, "api"),
		api.WithAPIKey(cfg.API.APIKey),
		api.WithDevices(store),
	)

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ServiceName: serviceName,
		Service:     &cli.SchedulerService{Controller: sched, Out: out},
		HTTPServer: &http.Server{
			Addr:              cfg.API.ListenAddr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		ShutdownTimeout: time.Duration(cfg.Scheduler.JoinTimeout) + readHeaderTimeout,
		Logger:          log,
	})
}

func newVault(cfg *models.Config, log logger.Logger) (scheduler.CredentialVault, error) {
	key, err := cfg.MasterKeyBytes()
	if err != nil {
		return nil, err
	}

	if key == nil {
		log.Warn().Msg("No master key configured; accounts with encrypted credentials cannot log in")
		return (*secrets.Cipher)(nil), nil
	}

	c, err := secrets.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func newEmitter(ctx context.Context, cfg *models.Config, store db.EventStore, log logger.Logger) (*events.Emitter, func(), error) {
	eventLog := logger.Component(log, "events")

	if !cfg.NATS.Enabled {
		return events.NewEmitter(store, nil, eventLog), func() {}, nil
	}

	publisher, nc, err := natsutil.Connect(ctx, &cfg.NATS, logger.Component(log, "nats"))
	if err != nil {
		return nil, nil, err
	}

	return events.NewEmitter(store, publisher, eventLog), nc.Close, nil
}
