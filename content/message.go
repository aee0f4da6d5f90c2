package content

import "fmt"

// MessageRole identifies who produced a Message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message is an immutable turn in a conversation. Invariant: only
// Assistant messages may contain ToolCallPart content; only Tool messages
// may contain ToolResultPart content; User messages contain neither.
type Message struct {
	Role    MessageRole `json:"role"`
	Content []Part      `json:"content"`
}

func validateMessageParts(role MessageRole, parts []Part) error {
	for _, p := range parts {
		switch p.Type() {
		case PartTypeToolCall:
			if role != RoleAssistant {
				return fmt.Errorf("content: %s message may not contain a tool_call part", role)
			}
		case PartTypeToolResult:
			if role != RoleTool {
				return fmt.Errorf("content: %s message may not contain a tool_result part", role)
			}
		}
	}
	return nil
}

// NewUserMessage builds a User message. Panics on an invariant violation
// since callers construct these from static/local content, never from
// untrusted wire data (wire data goes through NewMessage instead).
func NewUserMessage(parts ...Part) Message {
	return mustMessage(RoleUser, parts)
}

// NewAssistantMessage builds an Assistant message.
func NewAssistantMessage(parts ...Part) Message {
	return mustMessage(RoleAssistant, parts)
}

// NewToolMessage builds a Tool message.
func NewToolMessage(parts ...Part) Message {
	return mustMessage(RoleTool, parts)
}

func mustMessage(role MessageRole, parts []Part) Message {
	if err := validateMessageParts(role, parts); err != nil {
		panic(err)
	}
	return Message{Role: role, Content: parts}
}

// NewMessage builds a Message, validating the role/part-kind invariant
// rather than panicking. Use this when content originates from a provider
// response or other untrusted source.
func NewMessage(role MessageRole, parts []Part) (Message, error) {
	if err := validateMessageParts(role, parts); err != nil {
		return Message{}, err
	}
	return Message{Role: role, Content: parts}, nil
}

// ToolCalls returns every ToolCallPart in the message content, in order.
func (m Message) ToolCalls() []ToolCallPart {
	var calls []ToolCallPart
	for _, p := range m.Content {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// Text concatenates every TextPart's text, in order.
func (m Message) Text() string {
	var out string
	for _, p := range m.Content {
		if t, ok := p.(TextPart); ok {
			out += t.Text
		}
	}
	return out
}
