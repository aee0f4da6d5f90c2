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

package anthropic

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
	assert.Equal(t, defaultMaxTokens, c.maxTokens)
}

func TestBuildRequestForcesTemperatureWhenThinkingEnabled(t *testing.T) {
	temp := 0.2
	in := &llm.LanguageModelInput{
		Messages:    []content.Message{content.NewUserMessage(content.NewText("hi"))},
		Temperature: &temp,
		Reasoning:   &llm.ReasoningConfig{Enabled: true},
	}

	req := mustClient(t, Config{}).buildRequest(in, false)
	assert.Equal(t, thinkingTemperature, req.Temperature)
	require.NotNil(t, req.Thinking)
	assert.Equal(t, "enabled", req.Thinking.Type)
}

func TestBuildRequestConvertsToolCallsAndResults(t *testing.T) {
	in := &llm.LanguageModelInput{
		Messages: []content.Message{
			content.NewUserMessage(content.NewText("what's the weather")),
			content.NewAssistantMessage(content.NewToolCall("call_1", "get_weather", json.RawMessage(`{"city":"NYC"}`))),
			content.NewToolMessage(content.NewToolResult("call_1", "get_weather", []content.Part{content.NewText("sunny")}, false)),
		},
	}

	req := mustClient(t, Config{}).buildRequest(in, false)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "tool_use", req.Messages[1].Content[0].Type)
	assert.Equal(t, "tool_result", req.Messages[2].Content[0].Type)
	assert.Equal(t, "sunny", req.Messages[2].Content[0].Content)
}

func TestBuildRequestFlattensEmptyToolResultToPlaceholder(t *testing.T) {
	in := &llm.LanguageModelInput{
		Messages: []content.Message{
			content.NewToolMessage(content.NewToolResult("call_1", "noop", nil, false)),
		},
	}

	req := mustClient(t, Config{}).buildRequest(in, false)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "(no output)", req.Messages[0].Content[0].Content)
}

func TestParseResponseExtractsTextThinkingAndToolUse(t *testing.T) {
	resp := &apiResponse{
		Content: []apiContent{
			{Type: "thinking", Thinking: "let me think", Signature: "sig"},
			{Type: "text", Text: "hello there"},
			{Type: "tool_use", ID: "call_1", Name: "get_weather", Input: map[string]any{"city": "NYC"}},
		},
		Usage: apiUsage{InputTokens: 10, OutputTokens: 5},
	}

	parsed := parseResponse(resp)
	assert.Equal(t, "hello there", parsed.Text())
	require.Len(t, parsed.ToolCalls(), 1)
	assert.Equal(t, "get_weather", parsed.ToolCalls()[0].ToolName)
	assert.Equal(t, 10, parsed.Usage.InputTokens)
}

func TestProcessStreamEventEmitsTextDelta(t *testing.T) {
	state := newStreamState()
	event := &streamEvent{Type: "content_block_delta", Index: 0, Delta: &apiDelta{Type: "text_delta", Text: "hel"}}

	var got []*content.PartialModelResponse
	for delta, err := range processStreamEvent(event, state) {
		require.NoError(t, err)
		got = append(got, delta)
	}

	require.Len(t, got, 1)
	td, ok := got[0].Delta.Part.(content.TextDelta)
	require.True(t, ok)
	assert.Equal(t, "hel", td.Text)
}

func TestProcessStreamEventTracksToolUseStart(t *testing.T) {
	state := newStreamState()
	event := &streamEvent{
		Type:         "content_block_start",
		Index:        0,
		ContentBlock: &apiContent{Type: "tool_use", ID: "call_1", Name: "get_weather"},
	}

	var got []*content.PartialModelResponse
	for delta, err := range processStreamEvent(event, state) {
		require.NoError(t, err)
		got = append(got, delta)
	}

	require.Len(t, got, 1)
	tcd, ok := got[0].Delta.Part.(content.ToolCallDelta)
	require.True(t, ok)
	require.NotNil(t, tcd.ToolCallID)
	assert.Equal(t, "call_1", *tcd.ToolCallID)
	assert.Equal(t, "call_1", state.toolCallID[0])
}

var _ llm.LanguageModel = (*Client)(nil)
