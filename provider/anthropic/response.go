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
)

type apiResponse struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	Role       string       `json:"role"`
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func parseResponse(resp *apiResponse) *content.ModelResponse {
	var parts []content.Part
	for _, c := range resp.Content {
		switch c.Type {
		case "text":
			parts = append(parts, content.NewText(c.Text))
		case "thinking":
			sig := c.Signature
			parts = append(parts, content.ReasoningPart{Text: c.Thinking, Signature: &sig})
		case "tool_use":
			args, err := json.Marshal(c.Input)
			if err != nil {
				args = []byte("{}")
			}
			parts = append(parts, content.NewToolCall(c.ID, c.Name, args))
		}
	}

	return &content.ModelResponse{
		Content: parts,
		Usage:   &content.ModelUsage{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens},
	}
}
