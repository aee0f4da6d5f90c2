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

// Package content defines the provider-agnostic message content model:
// Parts, Messages, streaming deltas, and usage/cost accounting shared by
// every language model and tool in the runtime.
package content

import (
	"encoding/json"
	"fmt"
)

// PartType discriminates the concrete shape stored in a Part/PartDelta
// envelope when it crosses a JSON boundary.
type PartType string

const (
	PartTypeText       PartType = "text"
	PartTypeImage      PartType = "image"
	PartTypeAudio      PartType = "audio"
	PartTypeToolCall   PartType = "tool_call"
	PartTypeToolResult PartType = "tool_result"
	PartTypeSource     PartType = "source"
	PartTypeDocument   PartType = "document"
	PartTypeReasoning  PartType = "reasoning"
)

// Part is the atomic content unit of a Message. Concrete types are
// TextPart, ImagePart, AudioPart, ToolCallPart, ToolResultPart, SourcePart,
// DocumentPart, and ReasoningPart. Parts are immutable once constructed.
type Part interface {
	Type() PartType
	partMarker()
}

// TextPart is plain text content.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) Type() PartType { return PartTypeText }
func (TextPart) partMarker()    {}

// NewText builds a TextPart.
func NewText(text string) TextPart { return TextPart{Text: text} }

// ImagePart is base64-encoded image content.
type ImagePart struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
	Width    *int   `json:"width,omitempty"`
	Height   *int   `json:"height,omitempty"`
}

func (ImagePart) Type() PartType { return PartTypeImage }
func (ImagePart) partMarker()    {}

// NewImage builds an ImagePart.
func NewImage(mimeType, data string) ImagePart {
	return ImagePart{MimeType: mimeType, Data: data}
}

// AudioFormat enumerates the audio encodings the runtime understands.
type AudioFormat string

const (
	AudioFormatWAV      AudioFormat = "wav"
	AudioFormatMP3      AudioFormat = "mp3"
	AudioFormatLinear16 AudioFormat = "linear16"
	AudioFormatFLAC     AudioFormat = "flac"
	AudioFormatMulaw    AudioFormat = "mulaw"
	AudioFormatAlaw     AudioFormat = "alaw"
	AudioFormatAAC      AudioFormat = "aac"
	AudioFormatOpus     AudioFormat = "opus"
)

// AudioPart is base64-encoded audio content.
type AudioPart struct {
	Data       string      `json:"data"`
	Format     AudioFormat `json:"format"`
	SampleRate *int        `json:"sample_rate,omitempty"`
	Channels   *int        `json:"channels,omitempty"`
	Transcript *string     `json:"transcript,omitempty"`
	AudioID    *string     `json:"audio_id,omitempty"`
}

func (AudioPart) Type() PartType { return PartTypeAudio }
func (AudioPart) partMarker()    {}

// NewAudio builds an AudioPart.
func NewAudio(data string, format AudioFormat) AudioPart {
	return AudioPart{Data: data, Format: format}
}

// ToolCallPart is a model-issued request to invoke a tool. Only Assistant
// messages may carry ToolCallPart content.
type ToolCallPart struct {
	ToolCallID string          `json:"tool_call_id"`
	ToolName   string          `json:"tool_name"`
	Args       json.RawMessage `json:"args"`
}

func (ToolCallPart) Type() PartType { return PartTypeToolCall }
func (ToolCallPart) partMarker()    {}

// NewToolCall builds a ToolCallPart.
func NewToolCall(id, name string, args json.RawMessage) ToolCallPart {
	return ToolCallPart{ToolCallID: id, ToolName: name, Args: args}
}

// ToolResultPart is the outcome of executing a tool call. Only Tool
// messages may carry ToolResultPart content.
type ToolResultPart struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Content    []Part `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

func (ToolResultPart) Type() PartType { return PartTypeToolResult }
func (ToolResultPart) partMarker()    {}

// NewToolResult builds a ToolResultPart.
func NewToolResult(callID, toolName string, content []Part, isError bool) ToolResultPart {
	return ToolResultPart{ToolCallID: callID, ToolName: toolName, Content: content, IsError: isError}
}

// SourcePart is a citation wrapping its own content. Providers that do not
// model citations natively flatten it via FlattenSources.
type SourcePart struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content []Part `json:"content"`
}

func (SourcePart) Type() PartType { return PartTypeSource }
func (SourcePart) partMarker()    {}

// NewSource builds a SourcePart.
func NewSource(url, title string, content []Part) SourcePart {
	return SourcePart{URL: url, Title: title, Content: content}
}

// DocumentPart groups content belonging to one attached document.
// Providers without native document support flatten it via FlattenDocuments.
type DocumentPart struct {
	Content []Part `json:"content"`
}

func (DocumentPart) Type() PartType { return PartTypeDocument }
func (DocumentPart) partMarker()    {}

// NewDocument builds a DocumentPart.
func NewDocument(content []Part) DocumentPart { return DocumentPart{Content: content} }

// ReasoningPart carries a model's intermediate reasoning trace.
type ReasoningPart struct {
	Text      string  `json:"text"`
	Signature *string `json:"signature,omitempty"`
	ID        *string `json:"id,omitempty"`
}

func (ReasoningPart) Type() PartType { return PartTypeReasoning }
func (ReasoningPart) partMarker()    {}

// NewReasoning builds a ReasoningPart.
func NewReasoning(text string) ReasoningPart { return ReasoningPart{Text: text} }

// partEnvelope is the wire shape used to round-trip a Part through JSON
// with an explicit type discriminator.
type partEnvelope struct {
	Type PartType        `json:"type"`
	Body json.RawMessage `json:"-"`
}

// MarshalPart serializes a Part with its type discriminator.
func MarshalPart(p Part) ([]byte, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal part body: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("marshal part fields: %w", err)
	}
	typeJSON, err := json.Marshal(p.Type())
	if err != nil {
		return nil, err
	}
	fields["type"] = typeJSON
	return json.Marshal(fields)
}

// UnmarshalPart decodes a Part previously produced by MarshalPart.
func UnmarshalPart(data []byte) (Part, error) {
	var env partEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal part envelope: %w", err)
	}
	switch env.Type {
	case PartTypeText:
		var p TextPart
		return p, json.Unmarshal(data, &p)
	case PartTypeImage:
		var p ImagePart
		return p, json.Unmarshal(data, &p)
	case PartTypeAudio:
		var p AudioPart
		return p, json.Unmarshal(data, &p)
	case PartTypeToolCall:
		var p ToolCallPart
		return p, json.Unmarshal(data, &p)
	case PartTypeToolResult:
		var raw struct {
			ToolCallID string            `json:"tool_call_id"`
			ToolName   string            `json:"tool_name"`
			Content    []json.RawMessage `json:"content"`
			IsError    bool              `json:"is_error"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		parts, err := unmarshalParts(raw.Content)
		if err != nil {
			return nil, err
		}
		return ToolResultPart{ToolCallID: raw.ToolCallID, ToolName: raw.ToolName, Content: parts, IsError: raw.IsError}, nil
	case PartTypeSource:
		var raw struct {
			URL     string            `json:"url"`
			Title   string            `json:"title"`
			Content []json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		parts, err := unmarshalParts(raw.Content)
		if err != nil {
			return nil, err
		}
		return SourcePart{URL: raw.URL, Title: raw.Title, Content: parts}, nil
	case PartTypeDocument:
		var raw struct {
			Content []json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		parts, err := unmarshalParts(raw.Content)
		if err != nil {
			return nil, err
		}
		return DocumentPart{Content: parts}, nil
	case PartTypeReasoning:
		var p ReasoningPart
		return p, json.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("unknown part type %q", env.Type)
	}
}

func unmarshalParts(raw []json.RawMessage) ([]Part, error) {
	parts := make([]Part, 0, len(raw))
	for _, r := range raw {
		p, err := UnmarshalPart(r)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}
