package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserMessageRejectsToolCall(t *testing.T) {
	_, err := NewMessage(RoleUser, []Part{NewToolCall("c1", "t", nil)})
	assert.Error(t, err)
}

func TestToolMessageAllowsTextAndUserMessageRejectsToolResult(t *testing.T) {
	_, err := NewMessage(RoleTool, []Part{NewText("plain")})
	// plain text is allowed alongside tool results; only tool_call is
	// restricted to assistant and tool_result to tool.
	assert.NoError(t, err)

	_, err = NewMessage(RoleUser, []Part{NewToolResult("c1", "t", nil, false)})
	assert.Error(t, err)
}

func TestAssistantMessageAllowsToolCall(t *testing.T) {
	msg, err := NewMessage(RoleAssistant, []Part{NewToolCall("c1", "t", nil)})
	assert.NoError(t, err)
	assert.Len(t, msg.ToolCalls(), 1)
}

func TestMessageText(t *testing.T) {
	msg := NewUserMessage(NewText("hello "), NewText("world"))
	assert.Equal(t, "hello world", msg.Text())
}
