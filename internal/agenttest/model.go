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

// Package agenttest provides fake llm.LanguageModel and tool.Tool
// implementations for exercising the run loop without a network call.
package agenttest

import (
	"context"
	"iter"
	"sync"

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/llm"
)

// ScriptedModel replays a fixed sequence of responses, one per Generate or
// Stream call, in order. It records every input it was called with so a
// test can assert on conversation shape (e.g. exactly 3 invocations).
type ScriptedModel struct {
	mu        sync.Mutex
	responses []*content.ModelResponse
	calls     int
	Inputs    []*llm.LanguageModelInput

	// StreamDeltas, if set, overrides the deltas Stream yields per call
	// (indexed the same way as responses); when nil, Stream synthesizes a
	// single TextDelta per text part of the scripted response.
	StreamDeltas [][]*content.PartialModelResponse
}

// NewScriptedModel builds a model that returns responses in order, one per
// call to Generate/Stream.
func NewScriptedModel(responses ...*content.ModelResponse) *ScriptedModel {
	return &ScriptedModel{responses: responses}
}

func (m *ScriptedModel) Provider() string { return "test" }
func (m *ScriptedModel) ModelID() string  { return "scripted" }
func (m *ScriptedModel) Metadata() llm.Metadata {
	return llm.Metadata{Provider: "test", ModelID: "scripted"}
}

// CallCount returns how many times Generate or Stream has been invoked.
func (m *ScriptedModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *ScriptedModel) next(input *llm.LanguageModelInput) (*content.ModelResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, input)
	idx := m.calls
	m.calls++
	if idx >= len(m.responses) {
		return nil, false
	}
	return m.responses[idx], true
}

func (m *ScriptedModel) Generate(ctx context.Context, input *llm.LanguageModelInput) (*content.ModelResponse, error) {
	resp, ok := m.next(input)
	if !ok {
		return nil, errNoMoreResponses
	}
	return resp, nil
}

func (m *ScriptedModel) Stream(ctx context.Context, input *llm.LanguageModelInput) iter.Seq2[*content.PartialModelResponse, error] {
	return func(yield func(*content.PartialModelResponse, error) bool) {
		m.mu.Lock()
		m.Inputs = append(m.Inputs, input)
		idx := m.calls
		m.calls++
		m.mu.Unlock()

		if idx >= len(m.responses) {
			yield(nil, errNoMoreResponses)
			return
		}

		if idx < len(m.StreamDeltas) {
			for _, d := range m.StreamDeltas[idx] {
				if !yield(d, nil) {
					return
				}
			}
			return
		}

		resp := m.responses[idx]
		for i, part := range resp.Content {
			tp, ok := part.(content.TextPart)
			if !ok {
				continue
			}
			delta := &content.PartialModelResponse{
				Delta: &content.ContentDelta{Index: i, Part: content.TextDelta{Text: tp.Text}},
			}
			if !yield(delta, nil) {
				return
			}
		}
		if resp.Usage != nil {
			yield(&content.PartialModelResponse{Usage: resp.Usage}, nil)
		}
	}
}

var errNoMoreResponses = scriptExhaustedError{}

type scriptExhaustedError struct{}

func (scriptExhaustedError) Error() string { return "agenttest: scripted model has no more responses" }

var _ llm.LanguageModel = (*ScriptedModel)(nil)
