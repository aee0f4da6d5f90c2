package agenterrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentErrorUnwrapsLanguageModel(t *testing.T) {
	lmErr := Transport("openai", errors.New("boom"))
	agentErr := FromLanguageModel(lmErr)

	var target *LanguageModelError
	assert.True(t, errors.As(agentErr, &target))
	assert.Equal(t, KindTransport, target.Kind)
}

func TestAgentErrorUnwrapsToolExecution(t *testing.T) {
	toolErr := errors.New("disk full")
	agentErr := FromToolExecution(toolErr)
	assert.ErrorIs(t, agentErr, toolErr)
}

func TestInvariantMessage(t *testing.T) {
	err := Invariant("tool %s not found for tool call", "does_not_exist")
	assert.Equal(t, "tool does_not_exist not found for tool call", err.Message)
	assert.Equal(t, AgentKindInvariant, err.Kind)
}

func TestStatusCodeErrorMessage(t *testing.T) {
	err := StatusCode("anthropic", 429, `{"error":"rate_limited"}`)
	assert.Contains(t, err.Error(), "429")
}
