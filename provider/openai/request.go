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
	"fmt"

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/llm"
)

// responsesRequest is the wire shape POSTed to /v1/responses.
type responsesRequest struct {
	Model           string      `json:"model"`
	Input           []inputItem `json:"input"`
	Instructions    string      `json:"instructions,omitempty"`
	Stream          bool        `json:"stream,omitempty"`
	MaxOutputTokens *int        `json:"max_output_tokens,omitempty"`
	Temperature     *float64    `json:"temperature,omitempty"`
	Tools           []apiTool   `json:"tools,omitempty"`
	ToolChoice      string      `json:"tool_choice,omitempty"`
	Reasoning       *reasoning  `json:"reasoning,omitempty"`
	Include         []string    `json:"include,omitempty"`
	Text            *textFormat `json:"text,omitempty"`
}

type reasoning struct {
	Effort  string `json:"effort"`
	Summary string `json:"summary,omitempty"`
}

type textFormat struct {
	Format *responseFormatSpec `json:"format,omitempty"`
}

type responseFormatSpec struct {
	Type   string         `json:"type"`
	Name   string         `json:"name,omitempty"`
	Schema map[string]any `json:"schema,omitempty"`
	Strict bool           `json:"strict,omitempty"`
}

// inputItem is one element of the Responses API's flat input array: a
// message, a function call, or a function call's output.
type inputItem struct {
	Type      string `json:"type,omitempty"`
	ID        string `json:"id,omitempty"`
	Role      string `json:"role,omitempty"`
	Content   any    `json:"content,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`
}

type inputContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type apiTool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
	Strict      bool           `json:"strict,omitempty"`
}

func (c *Client) buildRequest(in *llm.LanguageModelInput, stream bool) (*responsesRequest, error) {
	reasoningModel := c.isReasoningModel()

	req := &responsesRequest{
		Model:  c.model,
		Stream: stream,
	}

	if in.SystemPrompt != nil {
		req.Instructions = *in.SystemPrompt
	}

	input, err := convertMessages(in.Messages)
	if err != nil {
		return nil, err
	}
	req.Input = input

	if in.MaxTokens != nil {
		req.MaxOutputTokens = in.MaxTokens
	}

	if !reasoningModel {
		if in.Temperature != nil {
			req.Temperature = in.Temperature
		} else if c.cfg.Temperature != nil {
			req.Temperature = c.cfg.Temperature
		}
	}

	if reasoningModel {
		budget := 0
		if c.cfg.Reasoning != nil && c.cfg.Reasoning.BudgetTokens != nil {
			budget = *c.cfg.Reasoning.BudgetTokens
		}
		if in.Reasoning != nil && in.Reasoning.BudgetTokens != nil {
			budget = *in.Reasoning.BudgetTokens
		}
		req.Reasoning = &reasoning{Effort: c.reasoningEffort(budget), Summary: "auto"}
		req.Include = []string{"reasoning.encrypted_content"}
	}

	if len(in.Tools) > 0 {
		req.Tools = convertTools(in.Tools)
		req.ToolChoice = "auto"
	}

	if in.ResponseFormat != nil && in.ResponseFormat.Kind == llm.ResponseFormatJSON {
		req.Text = &textFormat{Format: &responseFormatSpec{
			Type:   "json_schema",
			Name:   in.ResponseFormat.Name,
			Schema: in.ResponseFormat.Schema,
			Strict: true,
		}}
	}

	return req, nil
}

// convertMessages flattens a conversation into the Responses API's input
// array: User/Assistant text becomes a message item, each assistant
// ToolCallPart becomes its own function_call item, and each Tool message's
// ToolResultPart becomes a function_call_output item.
func convertMessages(messages []content.Message) ([]inputItem, error) {
	var out []inputItem
	for _, msg := range messages {
		switch msg.Role {
		case content.RoleUser, content.RoleAssistant:
			role := "user"
			if msg.Role == content.RoleAssistant {
				role = "assistant"
			}
			var parts []inputContentPart
			for _, p := range msg.Content {
				switch tp := p.(type) {
				case content.TextPart:
					kind := "input_text"
					if role == "assistant" {
						kind = "output_text"
					}
					parts = append(parts, inputContentPart{Type: kind, Text: tp.Text})
				case content.ImagePart:
					parts = append(parts, inputContentPart{
						Type:     "input_image",
						ImageURL: fmt.Sprintf("data:%s;base64,%s", tp.MimeType, tp.Data),
					})
				case content.ToolCallPart:
					out = append(out, inputItem{
						Type:      "function_call",
						CallID:    tp.ToolCallID,
						Name:      tp.ToolName,
						Arguments: string(tp.Args),
					})
				}
			}
			if len(parts) > 0 {
				out = append(out, inputItem{Type: "message", Role: role, Content: parts})
			}
		case content.RoleTool:
			for _, p := range msg.Content {
				tr, ok := p.(content.ToolResultPart)
				if !ok {
					continue
				}
				out = append(out, inputItem{
					Type:   "function_call_output",
					CallID: tr.ToolCallID,
					Output: flattenToolResult(tr),
				})
			}
		}
	}
	return out, nil
}

// flattenToolResult renders a tool result's content parts as the plain
// string the Responses API expects for a function_call_output.
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
	if tr.IsError {
		return "Error: " + text
	}
	return text
}

func convertTools(tools []llm.ToolDefinition) []apiTool {
	out := make([]apiTool, 0, len(tools))
	for _, t := range tools {
		params := t.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		out = append(out, apiTool{
			Type:        "function",
			Name:        t.Name,
			Description: t.Description,
			Parameters:  params,
		})
	}
	return out
}
