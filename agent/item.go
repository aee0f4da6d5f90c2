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

// Package agent drives multi-turn, tool-using conversations with a
// language model: assembling model input, detecting tool calls, executing
// them concurrently, and folding results back until the model stops
// calling tools or a turn budget is exhausted.
package agent

import "github.com/kadirpekel/agentrun/content"

// AgentItem is one entry in a conversation's persistent record: either a
// plain Message or a whole ModelResponse (preserving its usage and any
// reasoning parts across turns, rather than flattening to a Message).
type AgentItem interface {
	itemMarker()
}

// MessageItem wraps a Message appended to the conversation (the initial
// user turn, or a Tool message produced by dispatching tool calls).
type MessageItem struct {
	Message content.Message
}

func (MessageItem) itemMarker() {}

// ModelItem wraps one complete model response.
type ModelItem struct {
	Response *content.ModelResponse
}

func (ModelItem) itemMarker() {}

// itemsToMessages expands each AgentItem into the Message it contributes
// to the conversation sent to the model: a ModelItem becomes an Assistant
// message carrying its content.
func itemsToMessages(items []AgentItem) ([]content.Message, error) {
	messages := make([]content.Message, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case MessageItem:
			messages = append(messages, v.Message)
		case ModelItem:
			msg, err := content.NewMessage(content.RoleAssistant, v.Response.Content)
			if err != nil {
				return nil, err
			}
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

// modelUsages collects the usage of every ModelItem in items, in order,
// for summing into a run span's total token counts.
func modelUsages(items []AgentItem) []*content.ModelUsage {
	var usages []*content.ModelUsage
	for _, item := range items {
		if m, ok := item.(ModelItem); ok {
			usages = append(usages, m.Response.Usage)
		}
	}
	return usages
}

// AgentRequest is one call into a Session: the caller-supplied context and
// the conversation items to append before running.
type AgentRequest[C any] struct {
	Context C
	Input   []AgentItem
}

// AgentResponse is the outcome of one run: the final model response's
// content, and every item (model responses and tool messages) produced
// during the run.
type AgentResponse struct {
	Content []content.Part
	Output  []AgentItem
}

// AgentStreamEvent is one event from Session.RunStream.
type AgentStreamEvent interface {
	eventMarker()
}

// PartialEvent forwards one partial delta from the underlying model
// stream verbatim.
type PartialEvent struct {
	Delta *content.PartialModelResponse
}

func (PartialEvent) eventMarker() {}

// ItemEvent is emitted once per fully formed AgentItem, with a zero-based
// monotonic Index across the whole run.
type ItemEvent struct {
	Index int
	Item  AgentItem
}

func (ItemEvent) eventMarker() {}

// ResponseEvent is terminal: emitted exactly once, last.
type ResponseEvent struct {
	Response AgentResponse
}

func (ResponseEvent) eventMarker() {}
