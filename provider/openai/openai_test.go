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

package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/llm"
)

func mustClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNewRejectsMissingAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewAppliesDefaults(t *testing.T) {
	c := mustClient(t, Config{})
	assert.Equal(t, defaultModel, c.model)
	assert.Equal(t, defaultBaseURL, c.baseURL)
}

func TestIsReasoningModelMatchesKnownPrefixes(t *testing.T) {
	assert.True(t, mustClient(t, Config{Model: "o3-mini"}).isReasoningModel())
	assert.True(t, mustClient(t, Config{Model: "gpt-5"}).isReasoningModel())
	assert.False(t, mustClient(t, Config{Model: "gpt-4o"}).isReasoningModel())
}

func TestBuildRequestSetsTemperatureOnlyForNonReasoningModels(t *testing.T) {
	temp := 0.7
	in := &llm.LanguageModelInput{
		Messages:    []content.Message{content.NewUserMessage(content.NewText("hi"))},
		Temperature: &temp,
	}

	req, err := mustClient(t, Config{Model: "gpt-4o"}).buildRequest(in, false)
	require.NoError(t, err)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.7, *req.Temperature)

	reasoningReq, err := mustClient(t, Config{Model: "o3-mini"}).buildRequest(in, false)
	require.NoError(t, err)
	assert.Nil(t, reasoningReq.Temperature)
	require.NotNil(t, reasoningReq.Reasoning)
}

func TestBuildRequestConvertsToolCallsAndResults(t *testing.T) {
	in := &llm.LanguageModelInput{
		Messages: []content.Message{
			content.NewUserMessage(content.NewText("what's the weather")),
			content.NewAssistantMessage(content.NewToolCall("call_1", "get_weather", json.RawMessage(`{"city":"NYC"}`))),
			content.NewToolMessage(content.NewToolResult("call_1", "get_weather", []content.Part{content.NewText("sunny")}, false)),
		},
	}

	req, err := mustClient(t, Config{}).buildRequest(in, false)
	require.NoError(t, err)
	require.Len(t, req.Input, 3)
	assert.Equal(t, "message", req.Input[0].Type)
	assert.Equal(t, "function_call", req.Input[1].Type)
	assert.Equal(t, "call_1", req.Input[1].CallID)
	assert.Equal(t, "function_call_output", req.Input[2].Type)
	assert.Equal(t, "sunny", req.Input[2].Output)
}

func TestBuildRequestAttachesToolDefinitions(t *testing.T) {
	in := &llm.LanguageModelInput{
		Messages: []content.Message{content.NewUserMessage(content.NewText("hi"))},
		Tools: []llm.ToolDefinition{
			{Name: "get_weather", Description: "Gets the weather", Parameters: map[string]any{"type": "object"}},
		},
	}

	req, err := mustClient(t, Config{}).buildRequest(in, false)
	require.NoError(t, err)
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "get_weather", req.Tools[0].Name)
	assert.Equal(t, "auto", req.ToolChoice)
}

func TestParseResponseExtractsTextAndUsage(t *testing.T) {
	resp := &responsesResponse{
		Output: []outputItem{
			{Type: "message", Role: "assistant", Content: []outputContent{{Type: "output_text", Text: "hello there"}}},
		},
		Usage: &apiUsage{InputTokens: 10, OutputTokens: 5},
	}

	parsed, err := mustClient(t, Config{}).parseResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "hello there", parsed.Text())
	require.NotNil(t, parsed.Usage)
	assert.Equal(t, 10, parsed.Usage.InputTokens)
	assert.Equal(t, 5, parsed.Usage.OutputTokens)
}

func TestParseResponseSurfacesAPIError(t *testing.T) {
	resp := &responsesResponse{Error: &apiError{Message: "invalid request"}}
	_, err := mustClient(t, Config{}).parseResponse(resp)
	assert.ErrorContains(t, err, "invalid request")
}

func TestParseResponseExtractsFunctionCall(t *testing.T) {
	resp := &responsesResponse{
		Output: []outputItem{
			{Type: "function_call", CallID: "call_1", Name: "get_weather", Arguments: `{"city":"NYC"}`},
		},
	}

	parsed, err := mustClient(t, Config{}).parseResponse(resp)
	require.NoError(t, err)
	calls := parsed.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "get_weather", calls[0].ToolName)
}

func TestProcessStreamEventEmitsTextDelta(t *testing.T) {
	state := newStreamState()
	raw := map[string]any{"output_index": float64(0), "delta": "hel"}

	var got []*content.PartialModelResponse
	for delta, err := range processStreamEvent(raw, "response.output_text.delta", state) {
		require.NoError(t, err)
		got = append(got, delta)
	}

	require.Len(t, got, 1)
	td, ok := got[0].Delta.Part.(content.TextDelta)
	require.True(t, ok)
	assert.Equal(t, "hel", td.Text)
}

func TestProcessStreamEventTracksFunctionCallArgs(t *testing.T) {
	state := newStreamState()
	added := map[string]any{
		"output_index": float64(0),
		"item":         map[string]any{"type": "function_call", "call_id": "call_1", "name": "get_weather"},
	}
	for _, err := range processStreamEvent(added, "response.output_item.added", state) {
		require.NoError(t, err)
	}

	delta := map[string]any{"output_index": float64(0), "delta": `{"city":"NYC"}`}
	for _, err := range processStreamEvent(delta, "response.function_call_arguments.delta", state) {
		require.NoError(t, err)
	}

	assert.Equal(t, `{"city":"NYC"}`, state.functionArgs[0].String())
}

var _ llm.LanguageModel = (*Client)(nil)
