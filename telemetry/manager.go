// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Manager owns the tracer and meter providers for a process and closes
// them once, regardless of how many times Shutdown is called.
type Manager struct {
	tracerProvider trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdown       bool
}

// NewManager initializes tracing per cfg and, if withMetrics is true,
// registers the runtime's metric instruments.
func NewManager(ctx context.Context, cfg Config, withMetrics bool) (*Manager, error) {
	tp, err := InitTracerProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: init tracing: %w", err)
	}

	m := &Manager{tracerProvider: tp}
	if withMetrics {
		metrics, mp, err := NewMetrics()
		if err != nil {
			if sdktp, ok := tp.(*sdktrace.TracerProvider); ok {
				_ = sdktp.Shutdown(ctx)
			}
			return nil, fmt.Errorf("telemetry: init metrics: %w", err)
		}
		m.meterProvider = mp
		m.metrics = metrics
	}
	return m, nil
}

// Metrics returns the registered instruments, or nil if metrics were not
// enabled.
func (m *Manager) Metrics() *Metrics {
	if m == nil {
		return nil
	}
	return m.metrics
}

// Shutdown flushes and closes the tracer and meter providers. It is safe
// to call more than once.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m == nil || m.shutdown {
		return nil
	}
	m.shutdown = true

	var errs []error
	if sdktp, ok := m.tracerProvider.(*sdktrace.TracerProvider); ok {
		if err := sdktp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if m.meterProvider != nil {
		if err := m.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown: %v", errs)
	}
	slog.Debug("telemetry: shutdown complete")
	return nil
}
