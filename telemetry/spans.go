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
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/llm"
)

const tracerName = "github.com/kadirpekel/agentrun"

// Span names, matching the gen_ai/llm_agent/llm_sdk semantic conventions.
const (
	SpanAgentRun       = "llm_agent.run"
	SpanAgentRunStream = "llm_agent.run_stream"
	SpanAgentTool      = "llm_agent.tool"
	SpanModelGenerate  = "llm_sdk.generate"
	SpanModelStream    = "llm_sdk.stream"
)

// StartAgentRun opens the span wrapping one Run or RunStream call. method
// is the invoking method's name ("run" or "run_stream").
func StartAgentRun(ctx context.Context, spanName, agentName, method string) (context.Context, trace.Span) {
	return Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "invoke_agent"),
		attribute.String("gen_ai.agent.name", agentName),
		attribute.String("llm_agent.method", method),
	))
}

// StartTool opens the span wrapping one tool execution.
func StartTool(ctx context.Context, name, description, callID string) (context.Context, trace.Span) {
	return Tracer(tracerName).Start(ctx, SpanAgentTool, trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "execute_tool"),
		attribute.String("gen_ai.tool.name", name),
		attribute.String("gen_ai.tool.description", description),
		attribute.String("gen_ai.tool.type", "function"),
		attribute.String("gen_ai.tool.call.id", callID),
	))
}

// StartModel opens the span wrapping one Generate or Stream call.
func StartModel(ctx context.Context, spanName, provider, model string) (context.Context, trace.Span) {
	op := "chat"
	return Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(
		attribute.String("gen_ai.operation.name", op),
		attribute.String("gen_ai.system", provider),
		attribute.String("gen_ai.request.model", model),
	))
}

// RecordUsage attaches token-usage attributes once a ModelResponse's usage
// is known.
func RecordUsage(span trace.Span, usage *content.ModelUsage) {
	if usage == nil {
		return
	}
	span.SetAttributes(
		attribute.Int("gen_ai.usage.input_tokens", usage.InputTokens),
		attribute.Int("gen_ai.usage.output_tokens", usage.OutputTokens),
	)
}

// RecordRunUsage sums usage across a run's Model items and attaches the
// total token counts and, if pricing is known, the computed cost to the
// run span.
func RecordRunUsage(span trace.Span, usages []*content.ModelUsage, pricing *llm.Pricing) {
	total := &content.ModelUsage{}
	for _, u := range usages {
		total = total.Add(u)
	}
	span.SetAttributes(
		attribute.Int("gen_ai.model.input_tokens", total.InputTokens),
		attribute.Int("gen_ai.model.output_tokens", total.OutputTokens),
	)
	if cost := llm.ComputeCost(total, pricing); cost != nil {
		span.SetAttributes(attribute.Float64("llm_agent.cost", *cost))
	}
}

// RecordTimeToFirstToken attaches the latency of a stream's first delta.
func RecordTimeToFirstToken(span trace.Span, d time.Duration) {
	span.SetAttributes(attribute.Float64("gen_ai.server.time_to_first_token", d.Seconds()))
}

// End records err on span, if any, and closes it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
