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

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/llm"
)

type apiRequest struct {
	Model       string            `json:"model"`
	Messages    []apiMessage      `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature,omitempty"`
	Stream      bool              `json:"stream"`
	System      string            `json:"system,omitempty"`
	Tools       []apiTool         `json:"tools,omitempty"`
	Thinking    *thinkingSettings `json:"thinking,omitempty"`
}

type thinkingSettings struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens,omitempty"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   string         `json:"content,omitempty"`
	Thinking  string         `json:"thinking,omitempty"`
	Signature string         `json:"signature,omitempty"`
	Source    *imageSource   `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

func (c *Client) buildRequest(in *llm.LanguageModelInput, stream bool) *apiRequest {
	thinkingEnabled := in.Reasoning != nil && in.Reasoning.Enabled

	req := &apiRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Stream:    stream,
	}

	switch {
	case thinkingEnabled:
		req.Temperature = thinkingTemperature
	case in.Temperature != nil:
		req.Temperature = *in.Temperature
	case c.cfg.Temperature != nil:
		req.Temperature = *c.cfg.Temperature
	}

	if thinkingEnabled {
		budget := 10000
		if in.Reasoning.BudgetTokens != nil {
			budget = *in.Reasoning.BudgetTokens
		}
		req.Thinking = &thinkingSettings{Type: "enabled", BudgetTokens: budget}
	}

	if in.SystemPrompt != nil {
		req.System = *in.SystemPrompt
	}

	req.Messages = convertMessages(in.Messages)

	for _, t := range in.Tools {
		params := t.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		req.Tools = append(req.Tools, apiTool{Name: t.Name, Description: t.Description, InputSchema: params})
	}

	return req
}

func convertMessages(messages []content.Message) []apiMessage {
	var out []apiMessage
	for _, msg := range messages {
		role := "user"
		if msg.Role == content.RoleAssistant {
			role = "assistant"
		}

		var parts []apiContent
		for _, p := range msg.Content {
			switch tp := p.(type) {
			case content.TextPart:
				parts = append(parts, apiContent{Type: "text", Text: tp.Text})
			case content.ImagePart:
				parts = append(parts, apiContent{
					Type:   "image",
					Source: &imageSource{Type: "base64", MediaType: tp.MimeType, Data: tp.Data},
				})
			case content.ReasoningPart:
				sig := ""
				if tp.Signature != nil {
					sig = *tp.Signature
				}
				parts = append(parts, apiContent{Type: "thinking", Thinking: tp.Text, Signature: sig})
			case content.ToolCallPart:
				var args map[string]any
				_ = json.Unmarshal(tp.Args, &args)
				parts = append(parts, apiContent{Type: "tool_use", ID: tp.ToolCallID, Name: tp.ToolName, Input: args})
			case content.ToolResultPart:
				text := flattenToolResult(tp)
				parts = append(parts, apiContent{Type: "tool_result", ToolUseID: tp.ToolCallID, Content: text})
			}
		}

		if len(parts) > 0 {
			out = append(out, apiMessage{Role: role, Content: parts})
		}
	}
	return out
}

// flattenToolResult renders a tool result's content parts as the plain
// string Anthropic's tool_result block expects. A result with no text
// but other content parts is JSON-encoded; Anthropic rejects an empty
// string, so a result with no content at all falls back to a placeholder.
func flattenToolResult(tr content.ToolResultPart) string {
	var text string
	for _, p := range tr.Content {
		if t, ok := p.(content.TextPart); ok {
			text += t.Text
		}
	}
	if text == "" && len(tr.Content) > 0 {
		if b, err := json.Marshal(tr.Content); err == nil {
			text = string(b)
		}
	}
	if text == "" {
		text = "(no output)"
	}
	if tr.IsError {
		return "Error: " + text
	}
	return text
}
