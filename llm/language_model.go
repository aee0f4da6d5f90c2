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

// Package llm defines the provider-agnostic language model contract:
// request shape, capability/pricing metadata, and the generate/stream
// methods every provider adapter implements.
package llm

import (
	"context"
	"iter"

	"github.com/kadirpekel/agentrun/content"
)

// ResponseFormatKind discriminates the two response_format shapes.
type ResponseFormatKind string

const (
	ResponseFormatText ResponseFormatKind = "text"
	ResponseFormatJSON ResponseFormatKind = "json"
)

// ResponseFormat constrains the model's output shape.
type ResponseFormat struct {
	Kind        ResponseFormatKind
	Name        string         // set when Kind == ResponseFormatJSON
	Description string         // set when Kind == ResponseFormatJSON
	Schema      map[string]any // set when Kind == ResponseFormatJSON
}

// Text builds the Text response format.
func Text() ResponseFormat { return ResponseFormat{Kind: ResponseFormatText} }

// JSON builds the Json{name, description?, schema?} response format.
func JSON(name string, schema map[string]any) ResponseFormat {
	return ResponseFormat{Kind: ResponseFormatJSON, Name: name, Schema: schema}
}

// Modality names an input/output channel a request may exercise.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
	ModalityImage Modality = "image"
)

// AudioConfig configures audio output when Modalities includes audio.
type AudioConfig struct {
	Format content.AudioFormat
	Voice  string
}

// ReasoningConfig requests a reasoning/thinking trace from the model.
type ReasoningConfig struct {
	Enabled      bool
	BudgetTokens *int
}

// ToolDefinition is the subset of a tool's identity a provider adapter
// needs to advertise it to the model: name, description, and a
// type:object JSON schema for its parameters.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// LanguageModelInput is the provider-agnostic request shape.
type LanguageModelInput struct {
	Messages         []content.Message
	SystemPrompt     *string
	Tools            []ToolDefinition
	ResponseFormat   *ResponseFormat
	MaxTokens        *int
	Temperature      *float64
	TopP             *float64
	TopK             *int
	PresencePenalty  *float64
	FrequencyPenalty *float64
	Seed             *int
	Modalities       []Modality
	Audio            *AudioConfig
	Reasoning        *ReasoningConfig
	Extra            map[string]any
}

// Clone copies the input and its Messages, Tools and Modalities slices and
// its Extra map, so a caller can append to or replace entries of a shared
// LanguageModelInput template per request. Pointer fields, each message's
// Content slice and each tool's Parameters map are shared with the original.
func (in *LanguageModelInput) Clone() *LanguageModelInput {
	if in == nil {
		return nil
	}
	out := *in
	out.Messages = append([]content.Message(nil), in.Messages...)
	out.Tools = append([]ToolDefinition(nil), in.Tools...)
	if in.Modalities != nil {
		out.Modalities = append([]Modality(nil), in.Modalities...)
	}
	if in.Extra != nil {
		out.Extra = make(map[string]any, len(in.Extra))
		for k, v := range in.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

// Capabilities declares what a model supports, used by adapters to reject
// unsupported input up front with agenterrors.Unsupported.
type Capabilities struct {
	FunctionCalling  bool
	ImageInput       bool
	AudioInput       bool
	AudioOutput      bool
	StructuredOutput bool
	Citations        bool
	Reasoning        bool
}

// Pricing is dollars-per-token for each usage bucket in the cost formula.
// A zero-valued field means that bucket is free / unpriced.
type Pricing struct {
	InputText        float64
	InputAudio       float64
	InputImage       float64
	InputCachedText  float64
	InputCachedAudio float64
	InputCachedImage float64
	OutputText       float64
	OutputAudio      float64
	OutputImage      float64
}

// Metadata is attached to a model at construction time.
type Metadata struct {
	Provider     string
	ModelID      string
	Pricing      *Pricing
	Capabilities Capabilities
}

// LanguageModel is the contract every provider adapter implements.
type LanguageModel interface {
	Provider() string
	ModelID() string
	Metadata() Metadata
	Generate(ctx context.Context, input *LanguageModelInput) (*content.ModelResponse, error)
	Stream(ctx context.Context, input *LanguageModelInput) iter.Seq2[*content.PartialModelResponse, error]
}
