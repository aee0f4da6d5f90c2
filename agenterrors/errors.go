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

// Package agenterrors defines the typed error taxonomy shared by the LLM
// provider abstraction and the agent run loop.
package agenterrors

import "fmt"

// LanguageModelErrorKind classifies a failure raised by a provider adapter.
type LanguageModelErrorKind string

const (
	KindInvalidInput   LanguageModelErrorKind = "invalid_input"
	KindTransport      LanguageModelErrorKind = "transport"
	KindStatusCode     LanguageModelErrorKind = "status_code"
	KindUnsupported    LanguageModelErrorKind = "unsupported"
	KindNotImplemented LanguageModelErrorKind = "not_implemented"
	KindInvariant      LanguageModelErrorKind = "invariant"
	KindRefusal        LanguageModelErrorKind = "refusal"
)

// LanguageModelError is raised by a provider adapter (package llm).
type LanguageModelError struct {
	Kind     LanguageModelErrorKind
	Provider string
	Reason   string
	Code     int    // set when Kind == KindStatusCode
	Body     string // set when Kind == KindStatusCode
	Text     string // set when Kind == KindRefusal
	Err      error  // set when Kind == KindTransport
}

func (e *LanguageModelError) Error() string {
	switch e.Kind {
	case KindStatusCode:
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Code, e.Body)
	case KindRefusal:
		return fmt.Sprintf("%s: refused: %s", e.Provider, e.Text)
	case KindTransport:
		return fmt.Sprintf("%s: transport error: %v", e.Provider, e.Err)
	case KindUnsupported, KindNotImplemented, KindInvariant:
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
}

func (e *LanguageModelError) Unwrap() error { return e.Err }

func InvalidInput(provider, reason string) *LanguageModelError {
	return &LanguageModelError{Kind: KindInvalidInput, Provider: provider, Reason: reason}
}

func Transport(provider string, err error) *LanguageModelError {
	return &LanguageModelError{Kind: KindTransport, Provider: provider, Err: err}
}

func StatusCode(provider string, code int, body string) *LanguageModelError {
	return &LanguageModelError{Kind: KindStatusCode, Provider: provider, Code: code, Body: body}
}

func Unsupported(provider, reason string) *LanguageModelError {
	return &LanguageModelError{Kind: KindUnsupported, Provider: provider, Reason: reason}
}

func NotImplemented(provider, reason string) *LanguageModelError {
	return &LanguageModelError{Kind: KindNotImplemented, Provider: provider, Reason: reason}
}

func ModelInvariant(provider, reason string) *LanguageModelError {
	return &LanguageModelError{Kind: KindInvariant, Provider: provider, Reason: reason}
}

func Refusal(provider, text string) *LanguageModelError {
	return &LanguageModelError{Kind: KindRefusal, Provider: provider, Text: text}
}

// AgentErrorKind classifies a failure raised by the run loop itself.
type AgentErrorKind string

const (
	AgentKindLanguageModel AgentErrorKind = "language_model"
	AgentKindInvariant     AgentErrorKind = "invariant"
	AgentKindToolExecution AgentErrorKind = "tool_execution"
)

// AgentError is the error type returned by Session.Run / Session.RunStream
// and by Agent.Run.
type AgentError struct {
	Kind    AgentErrorKind
	Message string // set when Kind == AgentKindInvariant
	Model   error  // set when Kind == AgentKindLanguageModel (a *LanguageModelError)
	Tool    error  // set when Kind == AgentKindToolExecution
}

func (e *AgentError) Error() string {
	switch e.Kind {
	case AgentKindLanguageModel:
		return e.Model.Error()
	case AgentKindToolExecution:
		return fmt.Sprintf("tool execution failed: %v", e.Tool)
	default:
		return e.Message
	}
}

func (e *AgentError) Unwrap() error {
	switch e.Kind {
	case AgentKindLanguageModel:
		return e.Model
	case AgentKindToolExecution:
		return e.Tool
	default:
		return nil
	}
}

// Invariant builds an AgentError for a violated runtime invariant (unknown
// tool name, max_turns exceeded, malformed tool-call JSON, ...).
func Invariant(format string, args ...any) *AgentError {
	return &AgentError{Kind: AgentKindInvariant, Message: fmt.Sprintf(format, args...)}
}

// FromLanguageModel wraps a language model failure as an AgentError.
func FromLanguageModel(err error) *AgentError {
	return &AgentError{Kind: AgentKindLanguageModel, Model: err}
}

// FromToolExecution wraps a tool's thrown error as an AgentError. This is
// distinct from a recoverable ToolResult{IsError:true}, which never
// reaches this constructor.
func FromToolExecution(err error) *AgentError {
	return &AgentError{Kind: AgentKindToolExecution, Tool: err}
}
