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

	"github.com/kadirpekel/agentrun/agenterrors"
	"github.com/kadirpekel/agentrun/content"
)

// responsesResponse is the wire shape of a completed /v1/responses call.
type responsesResponse struct {
	ID                string             `json:"id"`
	Object            string             `json:"object"`
	CreatedAt         float64            `json:"created_at"`
	Status            string             `json:"status"`
	Error             *apiError          `json:"error,omitempty"`
	IncompleteDetails *incompleteDetails `json:"incomplete_details,omitempty"`
	Model             string             `json:"model"`
	Output            []outputItem       `json:"output"`
	Usage             *apiUsage          `json:"usage,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type incompleteDetails struct {
	Reason string `json:"reason"`
}

// outputItem is one element of a response's output array: a message, a
// function_call, or a reasoning block.
type outputItem struct {
	Type             string          `json:"type"`
	ID               string          `json:"id"`
	Status           string          `json:"status"`
	Role             string          `json:"role"`
	Content          []outputContent `json:"content,omitempty"`
	Summary          []summaryItem   `json:"summary,omitempty"`
	EncryptedContent string          `json:"encrypted_content,omitempty"`
	CallID           string          `json:"call_id,omitempty"`
	Name             string          `json:"name,omitempty"`
	Arguments        string          `json:"arguments,omitempty"`
}

type outputContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type summaryItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiUsage struct {
	InputTokens         int                    `json:"input_tokens"`
	OutputTokens        int                    `json:"output_tokens"`
	TotalTokens         int                    `json:"total_tokens"`
	InputTokensDetails  *apiUsageInputDetails  `json:"input_tokens_details,omitempty"`
	OutputTokensDetails *apiUsageOutputDetails `json:"output_tokens_details,omitempty"`
}

type apiUsageInputDetails struct {
	CachedTokens int `json:"cached_tokens"`
}

type apiUsageOutputDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

func (c *Client) parseResponse(resp *responsesResponse) (*content.ModelResponse, error) {
	if resp.Error != nil {
		return nil, agenterrors.StatusCode("openai", 0, resp.Error.Message)
	}
	if resp.Status == "incomplete" && resp.IncompleteDetails != nil && resp.IncompleteDetails.Reason == "content_filter" {
		return nil, agenterrors.Refusal("openai", "response withheld by content filter")
	}

	var parts []content.Part
	for _, item := range resp.Output {
		switch item.Type {
		case "message":
			for _, oc := range item.Content {
				if oc.Type == "output_text" || oc.Type == "text" {
					parts = append(parts, content.NewText(oc.Text))
				}
			}
		case "function_call":
			parts = append(parts, content.NewToolCall(item.CallID, item.Name, json.RawMessage(item.Arguments)))
		case "reasoning":
			for _, s := range item.Summary {
				parts = append(parts, content.NewReasoning(s.Text))
			}
		}
	}

	return &content.ModelResponse{Content: parts, Usage: convertUsage(resp.Usage)}, nil
}

func convertUsage(u *apiUsage) *content.ModelUsage {
	if u == nil {
		return nil
	}
	usage := &content.ModelUsage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens}
	if u.InputTokensDetails != nil {
		usage.InputTokensDetails = &content.ModelTokensDetails{CachedTextTokens: u.InputTokensDetails.CachedTokens}
	}
	return usage
}
