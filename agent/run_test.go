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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentrun/agenterrors"
	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/internal/agenttest"
	"github.com/kadirpekel/agentrun/tool"
)

func userInput(text string) []AgentItem {
	return []AgentItem{MessageItem{Message: content.NewUserMessage(content.NewText(text))}}
}

// Scenario 1: a single text turn with no tool calls returns immediately.
func TestRunSingleTextTurn(t *testing.T) {
	model := agenttest.NewScriptedModel(&content.ModelResponse{
		Content: []content.Part{content.NewText("hello there")},
	})
	agent := New(&Params[struct{}]{Name: "assistant", Model: model})

	resp, err := agent.Run(context.Background(), AgentRequest[struct{}]{Input: userInput("hi")})
	require.NoError(t, err)
	assert.Equal(t, 1, model.CallCount())
	require.Len(t, resp.Content, 1)
	assert.Equal(t, content.NewText("hello there"), resp.Content[0])
	require.Len(t, resp.Output, 1)
	_, ok := resp.Output[0].(ModelItem)
	assert.True(t, ok)
}

// Scenario 3: two parallel tool calls are dispatched concurrently and
// assembled back in their original order regardless of completion order.
func TestRunParallelToolCallsPreserveOrder(t *testing.T) {
	callA := content.NewToolCall("call_a", "tool_a", json.RawMessage(`{}`))
	callB := content.NewToolCall("call_b", "tool_b", json.RawMessage(`{}`))

	model := agenttest.NewScriptedModel(
		&content.ModelResponse{Content: []content.Part{callA, callB}},
		&content.ModelResponse{Content: []content.Part{content.NewText("done")}},
	)

	toolA := &agenttest.FuncTool[struct{}]{
		NameVal: "tool_a",
		Desc:    "tool a",
		Schema:  map[string]any{"type": "object"},
		Delay:   20 * time.Millisecond, // slower than tool_b
		Fn: func(ctx context.Context, args json.RawMessage, callCtx struct{}) (tool.Result, error) {
			return agenttest.TextResult("result a"), nil
		},
	}
	toolB := &agenttest.FuncTool[struct{}]{
		NameVal: "tool_b",
		Desc:    "tool b",
		Schema:  map[string]any{"type": "object"},
		Fn: func(ctx context.Context, args json.RawMessage, callCtx struct{}) (tool.Result, error) {
			return agenttest.TextResult("result b"), nil
		},
	}

	agent := New(&Params[struct{}]{
		Name:  "assistant",
		Model: model,
		Tools: []tool.Tool[struct{}]{toolA, toolB},
	})

	resp, err := agent.Run(context.Background(), AgentRequest[struct{}]{Input: userInput("do both")})
	require.NoError(t, err)
	assert.Equal(t, 2, model.CallCount())

	// Output: Model(calls), Message(tool results), Model(done).
	require.Len(t, resp.Output, 3)
	toolMsgItem, ok := resp.Output[1].(MessageItem)
	require.True(t, ok)
	require.Len(t, toolMsgItem.Message.Content, 2)

	first, ok := toolMsgItem.Message.Content[0].(content.ToolResultPart)
	require.True(t, ok)
	assert.Equal(t, "call_a", first.ToolCallID)
	second, ok := toolMsgItem.Message.Content[1].(content.ToolResultPart)
	require.True(t, ok)
	assert.Equal(t, "call_b", second.ToolCallID)
}

// Scenario 4: a tool call naming an unknown tool fails the run with an
// Invariant error.
func TestRunUnknownToolFailsWithInvariant(t *testing.T) {
	call := content.NewToolCall("call_1", "does_not_exist", json.RawMessage(`{}`))
	model := agenttest.NewScriptedModel(&content.ModelResponse{Content: []content.Part{call}})
	agent := New(&Params[struct{}]{Name: "assistant", Model: model})

	_, err := agent.Run(context.Background(), AgentRequest[struct{}]{Input: userInput("go")})
	require.Error(t, err)

	var agentErr *agenterrors.AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, agenterrors.AgentKindInvariant, agentErr.Kind)
	assert.Contains(t, agentErr.Message, "does_not_exist")
	assert.Contains(t, agentErr.Message, "not found")
}

// Scenario 5: a recoverable tool error (IsError:true) does not abort the
// run; the model sees it and the conversation continues.
func TestRunRecoverableToolErrorContinuesRun(t *testing.T) {
	call := content.NewToolCall("call_1", "flaky", json.RawMessage(`{}`))
	model := agenttest.NewScriptedModel(
		&content.ModelResponse{Content: []content.Part{call}},
		&content.ModelResponse{Content: []content.Part{content.NewText("recovered")}},
	)

	flaky := &agenttest.FuncTool[struct{}]{
		NameVal: "flaky",
		Desc:    "sometimes fails",
		Schema:  map[string]any{"type": "object"},
		Fn: func(ctx context.Context, args json.RawMessage, callCtx struct{}) (tool.Result, error) {
			return tool.ErrorResult("boom"), nil
		},
	}

	agent := New(&Params[struct{}]{
		Name:  "assistant",
		Model: model,
		Tools: []tool.Tool[struct{}]{flaky},
	})

	resp, err := agent.Run(context.Background(), AgentRequest[struct{}]{Input: userInput("try")})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Content[0].(content.TextPart).Text)
}

// Scenario 6: exceeding max_turns fails with an Invariant error after
// exactly max_turns model invocations.
func TestRunMaxTurnsExceeded(t *testing.T) {
	call := content.NewToolCall("call_1", "looper", json.RawMessage(`{}`))
	model := agenttest.NewScriptedModel(
		&content.ModelResponse{Content: []content.Part{call}},
		&content.ModelResponse{Content: []content.Part{call}},
		&content.ModelResponse{Content: []content.Part{call}},
	)

	looper := &agenttest.FuncTool[struct{}]{
		NameVal: "looper",
		Desc:    "always calls again",
		Schema:  map[string]any{"type": "object"},
		Fn: func(ctx context.Context, args json.RawMessage, callCtx struct{}) (tool.Result, error) {
			return agenttest.TextResult("again"), nil
		},
	}

	maxTurns := 3
	agent := New(&Params[struct{}]{
		Name:     "assistant",
		Model:    model,
		Tools:    []tool.Tool[struct{}]{looper},
		MaxTurns: &maxTurns,
	})

	_, err := agent.Run(context.Background(), AgentRequest[struct{}]{Input: userInput("loop")})
	require.Error(t, err)
	assert.Equal(t, 3, model.CallCount())

	var agentErr *agenterrors.AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, agenterrors.AgentKindInvariant, agentErr.Kind)
	assert.Contains(t, agentErr.Message, "max_turns")
}

// Open Question (b): max_turns=0 fails immediately, without ever invoking
// the model.
func TestRunMaxTurnsZeroFailsImmediately(t *testing.T) {
	model := agenttest.NewScriptedModel(&content.ModelResponse{Content: []content.Part{content.NewText("never")}})
	zero := 0
	agent := New(&Params[struct{}]{Name: "assistant", Model: model, MaxTurns: &zero})

	_, err := agent.Run(context.Background(), AgentRequest[struct{}]{Input: userInput("hi")})
	require.Error(t, err)
	assert.Equal(t, 0, model.CallCount())
}

// Duplicate tool names across Tools/Toolkits are rejected at session
// construction, before any model call.
func TestCreateSessionRejectsDuplicateToolNames(t *testing.T) {
	model := agenttest.NewScriptedModel()
	dup := func(name string) *agenttest.FuncTool[struct{}] {
		return &agenttest.FuncTool[struct{}]{
			NameVal: name,
			Schema:  map[string]any{"type": "object"},
			Fn: func(ctx context.Context, args json.RawMessage, callCtx struct{}) (tool.Result, error) {
				return agenttest.TextResult("x"), nil
			},
		}
	}
	agent := New(&Params[struct{}]{
		Name:  "assistant",
		Model: model,
		Tools: []tool.Tool[struct{}]{dup("search"), dup("search")},
	})

	_, err := agent.CreateSession(context.Background(), struct{}{})
	require.Error(t, err)
	assert.Equal(t, 0, model.CallCount())
}
