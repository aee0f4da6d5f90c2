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

// Package accumulate folds a sequence of provider-emitted partial model
// response chunks into one complete content.ModelResponse, reconciling
// each delta's position when the provider does not supply an authoritative
// index of its own.
package accumulate

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/kadirpekel/agentrun/agenterrors"
	"github.com/kadirpekel/agentrun/content"
)

// IndexHint carries whatever positional information a provider adapter was
// able to extract for one delta. Index, when non-nil, is authoritative and
// used verbatim. ToolCallArrayIndex, when non-nil, is the delta's position
// within the provider's own parallel tool-call array and is only consulted
// when Index is nil and the delta is a ToolCallDelta.
type IndexHint struct {
	Index              *int
	ToolCallArrayIndex *int
}

type partState struct {
	kind PartType

	// text / reasoning
	text      strings.Builder
	citation  *content.Citation
	signature *string

	// audio
	audio      []byte
	format     content.AudioFormat
	sampleRate *int
	channels   *int
	transcript strings.Builder
	audioID    *string

	// tool call
	toolCallID *string
	toolName   *string
	args       strings.Builder
}

// PartType is an alias kept local to avoid a stutter at call sites; it is
// exactly content.PartType.
type PartType = content.PartType

// Accumulator folds PartialModelResponse chunks into a ModelResponse. It
// is not safe for concurrent use: a model stream is consumed by exactly
// one goroutine.
type Accumulator struct {
	order []int
	state map[int]*partState

	usage *content.ModelUsage
	cost  *float64
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{state: make(map[int]*partState)}
}

// Add folds one PartialModelResponse into the accumulator's state.
func (a *Accumulator) Add(chunk *content.PartialModelResponse) error {
	if chunk == nil {
		return nil
	}
	if chunk.Usage != nil {
		a.usage = a.usage.Add(chunk.Usage)
	}
	if chunk.Cost != nil {
		if a.cost == nil {
			v := *chunk.Cost
			a.cost = &v
		} else {
			v := *a.cost + *chunk.Cost
			a.cost = &v
		}
	}
	if chunk.Delta == nil {
		return nil
	}
	return a.AddDelta(chunk.Delta.Part, IndexHint{Index: indexPtr(chunk.Delta.Index)})
}

// AddDelta folds one PartDelta at the position resolved from hint. Callers
// that already have an authoritative index (every provider that emits one
// per delta) should set hint.Index; callers translating an OpenAI-style
// parallel tool_calls array should leave Index nil and set
// ToolCallArrayIndex instead.
func (a *Accumulator) AddDelta(delta content.PartDelta, hint IndexHint) error {
	idx := a.resolveIndex(delta, hint)
	st, ok := a.state[idx]
	if !ok {
		st = &partState{kind: delta.DeltaType()}
		a.state[idx] = st
		a.order = append(a.order, idx)
	}
	return foldInto(st, delta)
}

// resolveIndex implements the index-reconciliation policy: authoritative
// index first, then tool-call array alignment, then same-kind reuse, then
// a brand new trailing index.
func (a *Accumulator) resolveIndex(delta content.PartDelta, hint IndexHint) int {
	if hint.Index != nil {
		return *hint.Index
	}

	if _, ok := delta.(content.ToolCallDelta); ok && hint.ToolCallArrayIndex != nil {
		k := *hint.ToolCallArrayIndex
		count := 0
		for _, idx := range a.order {
			if a.state[idx].kind == content.PartTypeToolCall {
				if count == k {
					return idx
				}
				count++
			}
		}
		return len(a.order)
	}

	kind := delta.DeltaType()
	for i := len(a.order) - 1; i >= 0; i-- {
		idx := a.order[i]
		if a.state[idx].kind == kind {
			return idx
		}
	}

	if len(a.order) == 0 {
		return 0
	}
	max := a.order[0]
	for _, idx := range a.order {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

func foldInto(st *partState, delta content.PartDelta) error {
	switch d := delta.(type) {
	case content.TextDelta:
		st.text.WriteString(d.Text)
		if st.citation == nil && d.Citation != nil {
			st.citation = d.Citation
		}
	case content.AudioDelta:
		if d.Data != "" {
			decoded, err := base64.StdEncoding.DecodeString(d.Data)
			if err != nil {
				return err
			}
			st.audio = append(st.audio, decoded...)
		}
		if d.Format != "" {
			st.format = d.Format
		}
		if d.SampleRate != nil {
			st.sampleRate = d.SampleRate
		}
		if d.Channels != nil {
			st.channels = d.Channels
		}
		if d.Transcript != nil {
			st.transcript.WriteString(*d.Transcript)
		}
		if d.AudioID != nil {
			st.audioID = d.AudioID
		}
	case content.ToolCallDelta:
		if d.ToolCallID != nil {
			st.toolCallID = d.ToolCallID
		}
		if d.ToolName != nil {
			st.toolName = d.ToolName
		}
		st.args.WriteString(d.Args)
	case content.ReasoningDelta:
		st.text.WriteString(d.Text)
		if d.Signature != nil {
			st.signature = d.Signature
		}
	}
	return nil
}

// ComputeResponse snapshots the current accumulator state into a complete
// ModelResponse without mutating or resetting the accumulator. provider is
// used only to tag a malformed-tool-call-JSON invariant error.
func (a *Accumulator) ComputeResponse(provider string) (*content.ModelResponse, error) {
	parts := make([]content.Part, 0, len(a.order))
	for _, idx := range a.order {
		st := a.state[idx]
		part, err := st.toPart(provider)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return &content.ModelResponse{Content: parts, Usage: a.usage, Cost: a.cost}, nil
}

func (st *partState) toPart(provider string) (content.Part, error) {
	switch st.kind {
	case content.PartTypeText:
		return content.TextPart{Text: st.text.String()}, nil
	case content.PartTypeAudio:
		return content.AudioPart{
			Data:       base64.StdEncoding.EncodeToString(st.audio),
			Format:     st.format,
			SampleRate: st.sampleRate,
			Channels:   st.channels,
			Transcript: transcriptPtr(st.transcript.String()),
			AudioID:    st.audioID,
		}, nil
	case content.PartTypeToolCall:
		args := st.args.String()
		if args == "" {
			args = "{}"
		}
		if !json.Valid([]byte(args)) {
			return nil, agenterrors.ModelInvariant(provider, "malformed tool call arguments JSON")
		}
		id, name := "", ""
		if st.toolCallID != nil {
			id = *st.toolCallID
		}
		if st.toolName != nil {
			name = *st.toolName
		}
		return content.ToolCallPart{ToolCallID: id, ToolName: name, Args: json.RawMessage(args)}, nil
	case content.PartTypeReasoning:
		return content.ReasoningPart{Text: st.text.String(), Signature: st.signature}, nil
	default:
		return nil, agenterrors.ModelInvariant(provider, "unknown accumulated part kind")
	}
}

func indexPtr(i int) *int { return &i }

func transcriptPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
