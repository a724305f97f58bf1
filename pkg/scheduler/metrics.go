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

package scheduler

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/ehmo/sovi/pkg/scheduler"

	metricSessionsCompleted = "sovi_scheduler_sessions_completed_total"
	metricSessionsFailed    = "sovi_scheduler_sessions_failed_total"
	metricSessionDuration   = "sovi_scheduler_session_duration_seconds"
	metricTaskSelections    = "sovi_scheduler_task_selections_total"
	metricBackoffs          = "sovi_scheduler_backoffs_total"
	metricDisconnects       = "sovi_scheduler_device_disconnects_total"
)

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	completedCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	failedCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	durationHistogram metric.Float64Histogram
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	selectionCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	backoffCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	disconnectCounter metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	completedCounter = int64Counter(meter, metricSessionsCompleted, "Warm-up sessions that advanced an account")
	failedCounter = int64Counter(meter, metricSessionsFailed, "Task executions that ended in error, by stage")
	selectionCounter = int64Counter(meter, metricTaskSelections, "Task selector outcomes by kind")
	backoffCounter = int64Counter(meter, metricBackoffs, "Error backoffs entered by device loops")
	disconnectCounter = int64Counter(meter, metricDisconnects, "Devices marked disconnected after readiness timeouts")

	hist, err := meter.Float64Histogram(
		metricSessionDuration,
		metric.WithDescription("Wall time of completed warm-up sessions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}

	durationHistogram = hist
}

func int64Counter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
	}

	return counter
}

func recordSessionCompleted(ctx context.Context, platform string, elapsed time.Duration) {
	meterOnce.Do(initMeter)

	attrs := metric.WithAttributes(attribute.String("platform", platform))

	if completedCounter != nil {
		completedCounter.Add(ctx, 1, attrs)
	}

	if durationHistogram != nil {
		durationHistogram.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func recordSessionFailed(ctx context.Context, platform, stage string) {
	meterOnce.Do(initMeter)

	if failedCounter == nil {
		return
	}

	failedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("platform", platform),
		attribute.String("stage", stage),
	))
}

func recordSelection(ctx context.Context, outcome string) {
	meterOnce.Do(initMeter)

	if selectionCounter == nil {
		return
	}

	selectionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func recordBackoff(ctx context.Context, reason string) {
	meterOnce.Do(initMeter)

	if backoffCounter == nil {
		return
	}

	backoffCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func recordDisconnect(ctx context.Context, deviceID string) {
	meterOnce.Do(initMeter)

	if disconnectCounter == nil {
		return
	}

	disconnectCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("device_id", deviceID)))
}
