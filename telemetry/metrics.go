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
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics records counters and histograms for runs, model calls, and tool
// executions, mirroring the attributes RecordUsage attaches to spans.
type Metrics struct {
	registry *prometheus.Registry

	runDuration  metric.Float64Histogram
	runTotal     metric.Int64Counter
	runErrors    metric.Int64Counter
	toolDuration metric.Float64Histogram
	toolTotal    metric.Int64Counter
	toolErrors   metric.Int64Counter
	modelTokens  metric.Int64Counter
}

// NewMetrics registers the runtime's instruments against a MeterProvider
// whose Reader exposes them on its own Prometheus registry, reachable via
// Handler.
func NewMetrics() (*Metrics, *sdkmetric.MeterProvider, error) {
	registry := prometheus.NewRegistry()
	reader, err := otelprometheus.New(otelprometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create prometheus reader: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("github.com/kadirpekel/agentrun")

	runDuration, err := meter.Float64Histogram("gen_ai.agent.run.duration", metric.WithUnit("s"))
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create run duration histogram: %w", err)
	}
	runTotal, err := meter.Int64Counter("gen_ai.agent.run.count")
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create run counter: %w", err)
	}
	runErrors, err := meter.Int64Counter("gen_ai.agent.run.errors")
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create run error counter: %w", err)
	}
	toolDuration, err := meter.Float64Histogram("gen_ai.tool.duration", metric.WithUnit("s"))
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create tool duration histogram: %w", err)
	}
	toolTotal, err := meter.Int64Counter("gen_ai.tool.count")
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create tool counter: %w", err)
	}
	toolErrors, err := meter.Int64Counter("gen_ai.tool.errors")
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create tool error counter: %w", err)
	}
	modelTokens, err := meter.Int64Counter("gen_ai.usage.tokens")
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create token counter: %w", err)
	}

	return &Metrics{
		registry:     registry,
		runDuration:  runDuration,
		runTotal:     runTotal,
		runErrors:    runErrors,
		toolDuration: toolDuration,
		toolTotal:    toolTotal,
		toolErrors:   toolErrors,
		modelTokens:  modelTokens,
	}, provider, nil
}

// Handler serves the registered instruments in the Prometheus exposition
// format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRun records one completed agent run.
func (m *Metrics) RecordRun(ctx context.Context, agentName string, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("gen_ai.agent.name", agentName))
	m.runDuration.Record(ctx, d.Seconds(), attrs)
	m.runTotal.Add(ctx, 1, attrs)
	if err != nil {
		m.runErrors.Add(ctx, 1, attrs)
	}
}

// RecordTool records one completed tool execution.
func (m *Metrics) RecordTool(ctx context.Context, toolName string, d time.Duration, isError bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("gen_ai.tool.name", toolName))
	m.toolDuration.Record(ctx, d.Seconds(), attrs)
	m.toolTotal.Add(ctx, 1, attrs)
	if isError {
		m.toolErrors.Add(ctx, 1, attrs)
	}
}

// RecordTokens records token usage for one model call.
func (m *Metrics) RecordTokens(ctx context.Context, provider, model string, tokenType string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.modelTokens.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("gen_ai.system", provider),
		attribute.String("gen_ai.request.model", model),
		attribute.String("gen_ai.token.type", tokenType),
	))
}
