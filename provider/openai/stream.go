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
	"iter"
	"strings"

	"github.com/kadirpekel/agentrun/content"
)

// streamState tracks the in-progress output item across a response's SSE
// events, since the Responses API emits deltas keyed by output index and
// item id rather than a flat token stream.
type streamState struct {
	outputIndex    map[int]string // output_index -> item type, for function_call vs message routing
	functionCallID map[int]string // output_index -> call_id, filled in on response.output_item.added
	functionArgs   map[int]*strings.Builder
}

func newStreamState() *streamState {
	return &streamState{
		outputIndex:    make(map[int]string),
		functionCallID: make(map[int]string),
		functionArgs:   make(map[int]*strings.Builder),
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// processStreamEvent interprets one decoded SSE event and yields at most
// one PartialModelResponse: a content delta for the *.delta events and
// function_call items, or a usage-only chunk for response.completed and
// response.incomplete.
func processStreamEvent(raw map[string]any, eventType string, state *streamState) iter.Seq2[*content.PartialModelResponse, error] {
	return func(yield func(*content.PartialModelResponse, error) bool) {
		outputIndex := asInt(raw["output_index"])

		switch eventType {
		case "response.output_item.added":
			item, _ := raw["item"].(map[string]any)
			if item == nil {
				return
			}
			itemType, _ := item["type"].(string)
			state.outputIndex[outputIndex] = itemType
			if itemType == "function_call" {
				callID, _ := item["call_id"].(string)
				state.functionCallID[outputIndex] = callID
				state.functionArgs[outputIndex] = &strings.Builder{}
				name, _ := item["name"].(string)
				toolName := name
				yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
					Index: outputIndex,
					Part:  content.ToolCallDelta{ToolCallID: &callID, ToolName: &toolName},
				}}, nil)
			}

		case "response.output_text.delta":
			delta, _ := raw["delta"].(string)
			if !yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
				Index: outputIndex,
				Part:  content.TextDelta{Text: delta},
			}}, nil) {
				return
			}

		case "response.function_call_arguments.delta":
			delta, _ := raw["delta"].(string)
			if b, ok := state.functionArgs[outputIndex]; ok {
				b.WriteString(delta)
			}
			if !yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
				Index: outputIndex,
				Part:  content.ToolCallDelta{Args: delta},
			}}, nil) {
				return
			}

		case "response.reasoning_summary_text.delta":
			delta, _ := raw["delta"].(string)
			if !yield(&content.PartialModelResponse{Delta: &content.ContentDelta{
				Index: outputIndex,
				Part:  content.ReasoningDelta{Text: delta},
			}}, nil) {
				return
			}

		case "response.completed", "response.incomplete":
			resp, _ := raw["response"].(map[string]any)
			if resp == nil {
				return
			}
			usageRaw, _ := resp["usage"].(map[string]any)
			if usageRaw != nil {
				usageJSON, err := json.Marshal(usageRaw)
				if err != nil {
					yield(nil, err)
					return
				}
				var u apiUsage
				if err := json.Unmarshal(usageJSON, &u); err != nil {
					yield(nil, err)
					return
				}
				yield(&content.PartialModelResponse{Usage: convertUsage(&u)}, nil)
			}

		case "error":
			message, _ := raw["message"].(string)
			yield(nil, &streamEventError{message: message})
		}
	}
}

type streamEventError struct{ message string }

func (e *streamEventError) Error() string { return "openai: stream error: " + e.message }
