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

package agent

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/kadirpekel/agentrun/accumulate"
	"github.com/kadirpekel/agentrun/agenterrors"
	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/instruction"
	"github.com/kadirpekel/agentrun/llm"
	"github.com/kadirpekel/agentrun/telemetry"
	"github.com/kadirpekel/agentrun/tool"
	"github.com/kadirpekel/agentrun/toolkit"
)

// Session is a stateful host for one conversation: it owns the tools and
// instructions resolved for one caller context, and any MCP/toolkit
// sessions opened to produce them. Create one with Agent.CreateSession and
// always Close it; Close is idempotent.
type Session[C any] struct {
	params  *Params[C]
	callCtx C

	tools        map[string]tool.Tool[C]
	toolDefs     []llm.ToolDefinition
	systemPrompt string

	toolkitSessions []toolkit.ToolkitSession[C]

	closeOnce sync.Once
	closeErr  error
}

func newSession[C any](ctx context.Context, params *Params[C], callCtx C) (*Session[C], error) {
	instrText, err := instruction.Resolve(ctx, params.Instructions, callCtx)
	if err != nil {
		return nil, agenterrors.Invariant("resolve instructions: %v", err)
	}

	tools := make(map[string]tool.Tool[C])
	toolOrder := make([]string, 0)
	for _, t := range params.Tools {
		name := t.Name()
		if _, dup := tools[name]; dup {
			return nil, agenterrors.Invariant("duplicate tool name %q", name)
		}
		tools[name] = t
		toolOrder = append(toolOrder, name)
	}

	var promptFragments []string
	if instrText != "" {
		promptFragments = append(promptFragments, instrText)
	}

	var toolkitSessions []toolkit.ToolkitSession[C]
	closeAll := func() {
		for _, ts := range toolkitSessions {
			_ = ts.Close(ctx)
		}
	}

	for _, tk := range params.Toolkits {
		ts, err := tk.CreateSession(ctx, callCtx)
		if err != nil {
			closeAll()
			return nil, agenterrors.Invariant("create toolkit session: %v", err)
		}
		toolkitSessions = append(toolkitSessions, ts)

		if prompt, ok := ts.SystemPrompt(); ok && prompt != "" {
			promptFragments = append(promptFragments, prompt)
		}
		for _, t := range ts.Tools() {
			name := t.Name()
			if _, dup := tools[name]; dup {
				closeAll()
				return nil, agenterrors.Invariant("duplicate tool name %q", name)
			}
			tools[name] = t
			toolOrder = append(toolOrder, name)
		}
	}

	toolDefs := make([]llm.ToolDefinition, 0, len(toolOrder))
	for _, name := range toolOrder {
		t := tools[name]
		toolDefs = append(toolDefs, llm.ToolDefinition{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()})
	}

	return &Session[C]{
		params:          params,
		callCtx:         callCtx,
		tools:           tools,
		toolDefs:        toolDefs,
		systemPrompt:    strings.Join(promptFragments, "\n"),
		toolkitSessions: toolkitSessions,
	}, nil
}

func (s *Session[C]) buildInput(messages []content.Message) *llm.LanguageModelInput {
	in := &llm.LanguageModelInput{
		Messages:         messages,
		Tools:            s.toolDefs,
		ResponseFormat:   s.params.ResponseFormat,
		Temperature:      s.params.Temperature,
		TopP:             s.params.TopP,
		TopK:             s.params.TopK,
		PresencePenalty:  s.params.PresencePenalty,
		FrequencyPenalty: s.params.FrequencyPenalty,
		Modalities:       s.params.Modalities,
		Audio:            s.params.Audio,
		Reasoning:        s.params.Reasoning,
	}
	if s.systemPrompt != "" {
		sp := s.systemPrompt
		in.SystemPrompt = &sp
	}
	return in
}

// Run drives the conversation until the model stops calling tools or
// max_turns is exhausted.
func (s *Session[C]) Run(ctx context.Context, input []AgentItem) (AgentResponse, error) {
	ctx, runSpan := telemetry.StartAgentRun(ctx, telemetry.SpanAgentRun, s.params.Name, "run")
	var runErr error
	var output []AgentItem
	defer func() {
		telemetry.RecordRunUsage(runSpan, modelUsages(output), s.params.Model.Metadata().Pricing)
		telemetry.End(runSpan, runErr)
	}()

	messages, err := itemsToMessages(input)
	if err != nil {
		runErr = agenterrors.Invariant("%v", err)
		return AgentResponse{}, runErr
	}

	state := tool.NewRunState()

	for turn := 1; turn <= s.params.maxTurns(); turn++ {
		modelCtx, modelSpan := telemetry.StartModel(ctx, telemetry.SpanModelGenerate, s.params.Model.Provider(), s.params.Model.ModelID())
		resp, err := s.params.Model.Generate(modelCtx, s.buildInput(messages))
		if err != nil {
			runErr = agenterrors.FromLanguageModel(err)
			telemetry.End(modelSpan, runErr)
			return AgentResponse{}, runErr
		}
		telemetry.RecordUsage(modelSpan, resp.Usage)
		telemetry.End(modelSpan, nil)
		output = append(output, ModelItem{Response: resp})

		calls := resp.ToolCalls()
		if len(calls) == 0 {
			return AgentResponse{Content: resp.Content, Output: output}, nil
		}

		results, err := dispatchTools(ctx, calls, s.tools, s.callCtx, state)
		if err != nil {
			runErr = err
			return AgentResponse{}, runErr
		}

		assistantMsg, err := content.NewMessage(content.RoleAssistant, resp.Content)
		if err != nil {
			runErr = agenterrors.Invariant("%v", err)
			return AgentResponse{}, runErr
		}
		toolMsg := content.NewToolMessage(results...)

		messages = append(messages, assistantMsg, toolMsg)
		output = append(output, MessageItem{Message: toolMsg})
	}

	runErr = agenterrors.Invariant("max_turns exceeded")
	return AgentResponse{}, runErr
}

// RunStream drives the same loop as Run, additionally yielding Partial and
// Item events as they become available. The sequence is lazy and finite;
// stopping iteration early stops consuming the in-flight model stream and
// returns without dispatching further tool calls or starting another turn.
func (s *Session[C]) RunStream(ctx context.Context, input []AgentItem) iter.Seq2[AgentStreamEvent, error] {
	return func(yield func(AgentStreamEvent, error) bool) {
		ctx, runSpan := telemetry.StartAgentRun(ctx, telemetry.SpanAgentRunStream, s.params.Name, "run_stream")
		var runErr error
		var output []AgentItem
		defer func() {
			telemetry.RecordRunUsage(runSpan, modelUsages(output), s.params.Model.Metadata().Pricing)
			telemetry.End(runSpan, runErr)
		}()

		messages, err := itemsToMessages(input)
		if err != nil {
			runErr = agenterrors.Invariant("%v", err)
			yield(nil, runErr)
			return
		}

		state := tool.NewRunState()
		itemIndex := 0

		for turn := 1; turn <= s.params.maxTurns(); turn++ {
			modelCtx, modelSpan := telemetry.StartModel(ctx, telemetry.SpanModelStream, s.params.Model.Provider(), s.params.Model.ModelID())
			start := time.Now()
			firstToken := true

			acc := accumulate.New()
			for delta, err := range s.params.Model.Stream(modelCtx, s.buildInput(messages)) {
				if err != nil {
					runErr = agenterrors.FromLanguageModel(err)
					telemetry.End(modelSpan, runErr)
					yield(nil, runErr)
					return
				}
				if firstToken {
					telemetry.RecordTimeToFirstToken(modelSpan, time.Since(start))
					firstToken = false
				}
				if !yield(PartialEvent{Delta: delta}, nil) {
					telemetry.End(modelSpan, nil)
					return
				}
				if err := acc.Add(delta); err != nil {
					runErr = agenterrors.FromLanguageModel(err)
					telemetry.End(modelSpan, runErr)
					yield(nil, runErr)
					return
				}
			}

			resp, err := acc.ComputeResponse(s.params.Model.Provider())
			if err != nil {
				runErr = agenterrors.FromLanguageModel(err)
				telemetry.End(modelSpan, runErr)
				yield(nil, runErr)
				return
			}
			telemetry.RecordUsage(modelSpan, resp.Usage)
			telemetry.End(modelSpan, nil)

			output = append(output, ModelItem{Response: resp})
			if !yield(ItemEvent{Index: itemIndex, Item: ModelItem{Response: resp}}, nil) {
				return
			}
			itemIndex++

			calls := resp.ToolCalls()
			if len(calls) == 0 {
				yield(ResponseEvent{Response: AgentResponse{Content: resp.Content, Output: output}}, nil)
				return
			}

			results, err := dispatchTools(ctx, calls, s.tools, s.callCtx, state)
			if err != nil {
				runErr = err
				yield(nil, runErr)
				return
			}

			assistantMsg, err := content.NewMessage(content.RoleAssistant, resp.Content)
			if err != nil {
				runErr = agenterrors.Invariant("%v", err)
				yield(nil, runErr)
				return
			}
			toolMsg := content.NewToolMessage(results...)

			messages = append(messages, assistantMsg, toolMsg)
			output = append(output, MessageItem{Message: toolMsg})
			if !yield(ItemEvent{Index: itemIndex, Item: MessageItem{Message: toolMsg}}, nil) {
				return
			}
			itemIndex++
		}

		runErr = agenterrors.Invariant("max_turns exceeded")
		yield(nil, runErr)
	}
}

// Close releases every toolkit session exactly once.
func (s *Session[C]) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		var errs []error
		for _, ts := range s.toolkitSessions {
			if err := ts.Close(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			s.closeErr = fmt.Errorf("close toolkit sessions: %v", errs)
		}
	})
	return s.closeErr
}
