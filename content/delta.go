package content

// PartDelta is the streaming counterpart of a Part: a partial fragment
// that the Accumulator folds, at a given index, into a complete Part.
type PartDelta interface {
	DeltaType() PartType
	deltaMarker()
}

// Citation is carried on a TextDelta when the upstream model attaches
// source attribution to a streamed text fragment.
type Citation struct {
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	StartIndex *int   `json:"start_index,omitempty"`
	EndIndex   *int   `json:"end_index,omitempty"`
}

// TextDelta is a streamed text fragment.
type TextDelta struct {
	Text     string    `json:"text"`
	Citation *Citation `json:"citation,omitempty"`
}

func (TextDelta) DeltaType() PartType { return PartTypeText }
func (TextDelta) deltaMarker()        {}

// AudioDelta is a streamed audio fragment. Any field may be unset on a
// given delta; the Accumulator carries forward whichever delta supplied
// each field.
type AudioDelta struct {
	Data       string      `json:"data,omitempty"`
	Format     AudioFormat `json:"format,omitempty"`
	SampleRate *int        `json:"sample_rate,omitempty"`
	Channels   *int        `json:"channels,omitempty"`
	Transcript *string     `json:"transcript,omitempty"`
	AudioID    *string     `json:"audio_id,omitempty"`
}

func (AudioDelta) DeltaType() PartType { return PartTypeAudio }
func (AudioDelta) deltaMarker()        {}

// ToolCallDelta is a streamed tool-call fragment. ToolCallID and ToolName
// are typically only present on the first delta for a given tool call;
// Args accumulates as a raw string fragment until the call is finalized.
type ToolCallDelta struct {
	ToolCallID *string `json:"tool_call_id,omitempty"`
	ToolName   *string `json:"tool_name,omitempty"`
	Args       string  `json:"args,omitempty"`
}

func (ToolCallDelta) DeltaType() PartType { return PartTypeToolCall }
func (ToolCallDelta) deltaMarker()        {}

// ReasoningDelta is a streamed reasoning-trace fragment.
type ReasoningDelta struct {
	Text      string  `json:"text"`
	Signature *string `json:"signature,omitempty"`
}

func (ReasoningDelta) DeltaType() PartType { return PartTypeReasoning }
func (ReasoningDelta) deltaMarker()        {}

// ContentDelta pairs a PartDelta with the index of the Part it belongs to
// within the response being assembled.
type ContentDelta struct {
	Index int       `json:"index"`
	Part  PartDelta `json:"part"`
}

// PartialModelResponse is one chunk of a streaming model response. Delta,
// Usage, and Cost are each optional and independently present: a usage-only
// chunk carries no Delta, a delta-only chunk carries no Usage.
type PartialModelResponse struct {
	Delta *ContentDelta `json:"delta,omitempty"`
	Usage *ModelUsage   `json:"usage,omitempty"`
	Cost  *float64      `json:"cost,omitempty"`
}

// ModelResponse is a complete, immutable model turn.
type ModelResponse struct {
	Content []Part      `json:"content"`
	Usage   *ModelUsage `json:"usage,omitempty"`
	Cost    *float64    `json:"cost,omitempty"`
}

// ToolCalls returns every ToolCallPart in the response content, in order.
func (r *ModelResponse) ToolCalls() []ToolCallPart {
	var calls []ToolCallPart
	for _, p := range r.Content {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// HasToolCalls reports whether the response contains any tool call.
func (r *ModelResponse) HasToolCalls() bool {
	for _, p := range r.Content {
		if p.Type() == PartTypeToolCall {
			return true
		}
	}
	return false
}

// Text concatenates every TextPart's text, in order.
func (r *ModelResponse) Text() string {
	var out string
	for _, p := range r.Content {
		if t, ok := p.(TextPart); ok {
			out += t.Text
		}
	}
	return out
}
