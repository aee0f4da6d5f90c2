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

// Package tool defines the contract a callable tool implements: identity,
// JSON-schema parameters, and execution against a caller-supplied context
// and a run's shared scratch state.
package tool

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"

	"github.com/kadirpekel/agentrun/content"
)

// NamePattern is the validation rule every tool name must satisfy.
var NamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RunState is per-run mutable scratch space shared across all tool
// executions within one run. Tools that mutate it concurrently must
// serialize their own access; RunState itself only guards the map.
type RunState struct {
	mu   sync.Mutex
	data map[string]any
}

// NewRunState returns an empty RunState.
func NewRunState() *RunState {
	return &RunState{data: make(map[string]any)}
}

// Get reads a value by key.
func (s *RunState) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores a value by key.
func (s *RunState) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Result is what a tool's execution produces. A successful result with
// IsError set to true is a recoverable failure: the run continues and the
// model sees the error content. An execute call that returns a Go error
// instead is a fatal failure that aborts the run.
type Result struct {
	Content []content.Part
	IsError bool
}

// ErrorResult builds a recoverable error Result from plain text.
func ErrorResult(text string) Result {
	return Result{Content: []content.Part{content.NewText(text)}, IsError: true}
}

// OK builds a successful Result.
func OK(parts ...content.Part) Result {
	return Result{Content: parts}
}

// Tool is a single callable capability exposed to an agent. C is the
// caller-supplied context type threaded through a run (see agent.Params).
type Tool[C any] interface {
	Name() string
	Description() string
	// Parameters returns a type:"object" JSON schema describing the
	// tool's argument structure.
	Parameters() map[string]any
	Execute(ctx context.Context, args json.RawMessage, callCtx C, state *RunState) (Result, error)
}

// Definition is the provider-facing projection of a Tool's identity,
// independent of its execution logic.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToDefinition projects a Tool to its Definition.
func ToDefinition[C any](t Tool[C]) Definition {
	return Definition{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()}
}
