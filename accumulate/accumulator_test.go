package accumulate

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentrun/content"
)

func ptrInt(i int) *int       { return &i }
func ptrStr(s string) *string { return &s }

func TestAccumulatorSingleTextDelta(t *testing.T) {
	acc := New()
	require.NoError(t, acc.Add(&content.PartialModelResponse{
		Delta: &content.ContentDelta{Index: 0, Part: content.TextDelta{Text: "Mock"}},
	}))

	resp, err := acc.ComputeResponse("mock")
	require.NoError(t, err)
	assert.Equal(t, []content.Part{content.NewText("Mock")}, resp.Content)
}

func TestAccumulatorRoundTripFromSinglePartDeltas(t *testing.T) {
	original := &content.ModelResponse{
		Content: []content.Part{
			content.NewText("hello world"),
			content.NewToolCall("call_1", "get_weather", json.RawMessage(`{"city":"NYC"}`)),
		},
		Usage: &content.ModelUsage{InputTokens: 10, OutputTokens: 20},
	}

	acc := New()
	require.NoError(t, acc.Add(&content.PartialModelResponse{
		Delta: &content.ContentDelta{Index: 0, Part: content.TextDelta{Text: "hello world"}},
	}))
	name := "get_weather"
	id := "call_1"
	require.NoError(t, acc.Add(&content.PartialModelResponse{
		Delta: &content.ContentDelta{Index: 1, Part: content.ToolCallDelta{ToolCallID: &id, ToolName: &name, Args: `{"city":"NYC"}`}},
	}))
	require.NoError(t, acc.Add(&content.PartialModelResponse{Usage: original.Usage}))

	got, err := acc.ComputeResponse("mock")
	require.NoError(t, err)
	assert.Equal(t, original.Content, got.Content)
	assert.Equal(t, original.Usage, got.Usage)
}

// TestIndexReconciliationOpenAIStyle reproduces an OpenAI-style emission:
// text deltas with no authoritative index interleaved with tool-call
// deltas whose only positional signal is their tool_calls array offset.
func TestIndexReconciliationOpenAIStyle(t *testing.T) {
	acc := New()

	require.NoError(t, acc.AddDelta(content.TextDelta{Text: "The weather in "}, IndexHint{}))
	require.NoError(t, acc.AddDelta(content.TextDelta{Text: "NYC is"}, IndexHint{}))

	name1, id1 := "get_weather", "call_a"
	require.NoError(t, acc.AddDelta(content.ToolCallDelta{ToolCallID: &id1, ToolName: &name1, Args: `{"city"`}, IndexHint{ToolCallArrayIndex: ptrInt(0)}))
	require.NoError(t, acc.AddDelta(content.ToolCallDelta{Args: `:"NYC"}`}, IndexHint{ToolCallArrayIndex: ptrInt(0)}))

	name2, id2 := "get_weather", "call_b"
	require.NoError(t, acc.AddDelta(content.ToolCallDelta{ToolCallID: &id2, ToolName: &name2, Args: `{"city":"LA"}`}, IndexHint{ToolCallArrayIndex: ptrInt(1)}))

	require.NoError(t, acc.AddDelta(content.TextDelta{Text: " sunny"}, IndexHint{}))

	resp, err := acc.ComputeResponse("mock")
	require.NoError(t, err)
	require.Len(t, resp.Content, 3)

	text, ok := resp.Content[0].(content.TextPart)
	require.True(t, ok)
	assert.Equal(t, "The weather in NYC is sunny", text.Text)

	call1, ok := resp.Content[1].(content.ToolCallPart)
	require.True(t, ok)
	assert.Equal(t, "call_a", call1.ToolCallID)
	assert.JSONEq(t, `{"city":"NYC"}`, string(call1.Args))

	call2, ok := resp.Content[2].(content.ToolCallPart)
	require.True(t, ok)
	assert.Equal(t, "call_b", call2.ToolCallID)
	assert.JSONEq(t, `{"city":"LA"}`, string(call2.Args))
}

func TestAccumulatorMalformedToolCallJSONFails(t *testing.T) {
	acc := New()
	name, id := "f", "c1"
	require.NoError(t, acc.AddDelta(content.ToolCallDelta{ToolCallID: &id, ToolName: &name, Args: `{"bad`}, IndexHint{Index: ptrInt(0)}))

	_, err := acc.ComputeResponse("mock")
	assert.Error(t, err)
}

func TestAccumulatorAudioFolding(t *testing.T) {
	acc := New()
	chunk1 := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4})
	chunk2 := base64.StdEncoding.EncodeToString([]byte{5, 6, 7, 8})

	require.NoError(t, acc.AddDelta(content.AudioDelta{Data: chunk1, Format: content.AudioFormatLinear16, Transcript: ptrStr("hel")}, IndexHint{Index: ptrInt(0)}))
	require.NoError(t, acc.AddDelta(content.AudioDelta{Data: chunk2, Transcript: ptrStr("lo")}, IndexHint{Index: ptrInt(0)}))

	resp, err := acc.ComputeResponse("mock")
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)

	audio, ok := resp.Content[0].(content.AudioPart)
	require.True(t, ok)
	decoded, err := base64.StdEncoding.DecodeString(audio.Data)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, decoded)
	assert.Equal(t, "hello", *audio.Transcript)
	assert.Equal(t, content.AudioFormatLinear16, audio.Format)
}

func TestComputeResponseIsNonDestructive(t *testing.T) {
	acc := New()
	require.NoError(t, acc.AddDelta(content.TextDelta{Text: "a"}, IndexHint{Index: ptrInt(0)}))

	first, err := acc.ComputeResponse("mock")
	require.NoError(t, err)

	require.NoError(t, acc.AddDelta(content.TextDelta{Text: "b"}, IndexHint{Index: ptrInt(0)}))
	second, err := acc.ComputeResponse("mock")
	require.NoError(t, err)

	assert.Equal(t, "a", first.Content[0].(content.TextPart).Text)
	assert.Equal(t, "ab", second.Content[0].(content.TextPart).Text)
}
