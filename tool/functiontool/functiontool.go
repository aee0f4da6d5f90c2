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

// Package functiontool adapts a typed Go function into a tool.Tool,
// deriving its JSON schema from the argument struct's tags.
package functiontool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/tool"
)

// Func is the user-supplied execution logic for a function tool. Args is
// decoded from the model's tool-call arguments using the struct's json/
// jsonschema tags.
type Func[C any, Args any] func(ctx context.Context, args Args, callCtx C, state *tool.RunState) (tool.Result, error)

// Tool wraps a Func as a tool.Tool[C].
type Tool[C any, Args any] struct {
	name        string
	description string
	schema      map[string]any
	fn          Func[C, Args]
}

// New builds a function tool. It panics if name does not satisfy
// tool.NamePattern or if the schema cannot be derived from Args, since
// both are static programming errors caught at wiring time, not runtime
// conditions a caller can recover from.
func New[C any, Args any](name, description string, fn Func[C, Args]) *Tool[C, Args] {
	if !tool.NamePattern.MatchString(name) {
		panic(fmt.Sprintf("functiontool: invalid tool name %q", name))
	}
	schema, err := generateSchema[Args]()
	if err != nil {
		panic(fmt.Sprintf("functiontool: deriving schema for %q: %v", name, err))
	}
	return &Tool[C, Args]{name: name, description: description, schema: schema, fn: fn}
}

func (t *Tool[C, Args]) Name() string              { return t.name }
func (t *Tool[C, Args]) Description() string       { return t.description }
func (t *Tool[C, Args]) Parameters() map[string]any { return t.schema }

func (t *Tool[C, Args]) Execute(ctx context.Context, raw json.RawMessage, callCtx C, state *tool.RunState) (tool.Result, error) {
	var loose map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &loose); err != nil {
			return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}

	var args Args
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &args,
	})
	if err != nil {
		return tool.Result{}, fmt.Errorf("functiontool %s: building decoder: %w", t.name, err)
	}
	if err := decoder.Decode(loose); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	return t.fn(ctx, args, callCtx, state)
}

var _ tool.Tool[struct{}] = (*Tool[struct{}, struct{}])(nil)

// TextResult is a convenience constructor for the common case of a tool
// returning a single text Part.
func TextResult(text string) tool.Result {
	return tool.OK(content.NewText(text))
}
