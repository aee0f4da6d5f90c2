package mcp

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentrun/content"
)

func TestToPartsMapsTextImageAudioAndDropsUnknown(t *testing.T) {
	blocks := []mcp.Content{
		mcp.TextContent{Type: "text", Text: "hello"},
		mcp.ImageContent{Type: "image", Data: "Zm9v", MIMEType: "image/png"},
		mcp.AudioContent{Type: "audio", Data: "AAAA", MIMEType: "audio/wav"},
		mcp.EmbeddedResource{Type: "resource"},
	}

	parts, err := toParts(blocks)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, content.NewText("hello"), parts[0])
	assert.Equal(t, content.NewImage("image/png", "Zm9v"), parts[1])
	assert.Equal(t, content.NewAudio("AAAA", content.AudioFormatWAV), parts[2])
}

func TestToPartsRejectsUnrecognizedAudioMIME(t *testing.T) {
	_, err := toParts([]mcp.Content{mcp.AudioContent{Type: "audio", Data: "x", MIMEType: "audio/unknown"}})
	assert.Error(t, err)
}

func TestToSchemaDefaultsEmptyRequired(t *testing.T) {
	schema := toSchema(mcp.ToolInputSchema{Type: "object", Properties: map[string]any{"city": map[string]any{"type": "string"}}})
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{}, schema["required"])
}

func TestToSchemaKeepsRequired(t *testing.T) {
	schema := toSchema(mcp.ToolInputSchema{Type: "object", Required: []string{"city"}})
	assert.Equal(t, []any{"city"}, schema["required"])
}

func TestParamsAllowedWithNoFilterAllowsEverything(t *testing.T) {
	p := Params{}
	assert.True(t, p.allowed("anything"))
}

func TestParamsAllowedWithFilterRestricts(t *testing.T) {
	p := Params{Filter: []string{"get_weather"}}
	assert.True(t, p.allowed("get_weather"))
	assert.False(t, p.allowed("delete_everything"))
}

func TestStaticResolverAlwaysReturnsSameParams(t *testing.T) {
	want := Params{Transport: TransportStdio, Command: "mcp-server"}
	resolver := Static[struct{}](want)
	got, err := resolver(context.Background(), struct{}{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadSSEResponseParsesFirstEvent(t *testing.T) {
	body := io.NopCloser(strings.NewReader("event: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":1,\"result\":{\"ok\":true}}\n\n"))
	resp, err := readSSEResponse(body)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ID)
}
