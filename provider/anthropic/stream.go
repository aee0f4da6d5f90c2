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
	"iter"

	"github.com/kadirpekel/agentrun/content"
)

type streamEvent struct {
	Type         string        `json:"type"`
	Index        int           `json:"index"`
	Delta        *apiDelta     `json:"delta,omitempty"`
	ContentBlock *apiContent   `json:"content_block,omitempty"`
	Usage        *apiUsage     `json:"usage,omitempty"`
	Error        *streamAPIErr `json:"error,omitempty"`
}

type streamAPIErr struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type apiDelta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
	Thinking    string `json:"thinking,omitempty"`
	Signature   string `json:"signature,omitempty"`
	StopReason  string `json:"stop_reason,omitempty"`
}

// streamState tracks per-content-block accumulation across a message's
// SSE events, since Anthropic streams tool_use arguments and thinking
// signatures as a sequence of fragments keyed by block index.
type streamState struct {
	toolCallID map[int]string
	toolName   map[int]string
}

func newStreamState() *streamState {
	return &streamState{toolCallID: make(map[int]string), toolName: make(map[int]string)}
}

// processStreamEvent interprets one decoded SSE event and yields zero or
// more PartialModelResponse deltas.
func processStreamEvent(event *streamEvent, state *streamState) iter.Seq2[*content.PartialModelResponse, error] {
	return func(yield func(*content.PartialModelResponse, error) bool) {
		switch event.Type {
		case "content_block_start":
			if event.ContentBlock != nil && event.ContentBlock.Type == "tool_use" {
				state.toolCallID[event.Index] = event.ContentBlock.ID
				state.toolName[event.Index] = event.ContentBlock.Name
				id, name := event.ContentBlock.ID, event.ContentBlock.Name
				yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
					Index: event.Index,
					Part:  content.ToolCallDelta{ToolCallID: &id, ToolName: &name},
				}}, nil)
			}

		case "content_block_delta":
			if event.Delta == nil {
				return
			}
			switch event.Delta.Type {
			case "text_delta":
				if !yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
					Index: event.Index,
					Part:  content.TextDelta{Text: event.Delta.Text},
				}}, nil) {
					return
				}
			case "thinking_delta":
				if !yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
					Index: event.Index,
					Part:  content.ReasoningDelta{Text: event.Delta.Thinking},
				}}, nil) {
					return
				}
			case "signature_delta":
				sig := event.Delta.Signature
				if !yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
					Index: event.Index,
					Part:  content.ReasoningDelta{Signature: &sig},
				}}, nil) {
					return
				}
			case "input_json_delta":
				if !yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
					Index: event.Index,
					Part:  content.ToolCallDelta{Args: event.Delta.PartialJSON},
				}}, nil) {
					return
				}
			}

		case "message_delta":
			if event.Usage != nil {
				yield(&content.PartialModelResponse{Usage: &content.ModelUsage{
					InputTokens:  event.Usage.InputTokens,
					OutputTokens: event.Usage.OutputTokens,
				}}, nil)
			}

		case "error":
			message := "unknown stream error"
			if event.Error != nil {
				message = event.Error.Message
			}
			yield(nil, &streamEventError{message: message})
		}
	}
}

type streamEventError struct{ message string }

func (e *streamEventError) Error() string { return e.message }
