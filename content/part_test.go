package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalPartRoundTrip(t *testing.T) {
	cases := []Part{
		NewText("hello"),
		NewImage("image/png", "YWJj"),
		NewAudio("YWJj", AudioFormatMP3),
		NewToolCall("call_1", "get_weather", json.RawMessage(`{"city":"NYC"}`)),
		NewToolResult("call_1", "get_weather", []Part{NewText("sunny")}, false),
		NewSource("https://example.com", "Example", []Part{NewText("cited text")}),
		NewDocument([]Part{NewText("doc text")}),
		NewReasoning("thinking..."),
	}

	for _, original := range cases {
		data, err := MarshalPart(original)
		require.NoError(t, err)

		got, err := UnmarshalPart(data)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	}
}

func TestUnmarshalPartUnknownType(t *testing.T) {
	_, err := UnmarshalPart([]byte(`{"type":"bogus"}`))
	assert.Error(t, err)
}

func TestToolResultNestedContentRoundTrip(t *testing.T) {
	original := NewToolResult("call_2", "search", []Part{
		NewText("result text"),
		NewSource("https://a.example", "A", []Part{NewText("inner")}),
	}, true)

	data, err := MarshalPart(original)
	require.NoError(t, err)

	got, err := UnmarshalPart(data)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}
