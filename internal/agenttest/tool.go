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

package agenttest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/tool"
)

// FuncTool adapts a plain function into a tool.Tool[C], recording every
// call's start/end order so a test can assert on concurrency.
type FuncTool[C any] struct {
	NameVal string
	Desc    string
	Schema  map[string]any
	Delay   time.Duration
	Fn      func(ctx context.Context, args json.RawMessage, callCtx C) (tool.Result, error)

	mu    sync.Mutex
	Calls []string
}

func (t *FuncTool[C]) Name() string                  { return t.NameVal }
func (t *FuncTool[C]) Description() string           { return t.Desc }
func (t *FuncTool[C]) Parameters() map[string]any    { return t.Schema }
func (t *FuncTool[C]) CallOrder() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.Calls...)
}

func (t *FuncTool[C]) Execute(ctx context.Context, args json.RawMessage, callCtx C, state *tool.RunState) (tool.Result, error) {
	t.mu.Lock()
	t.Calls = append(t.Calls, "start:"+t.NameVal)
	t.mu.Unlock()

	if t.Delay > 0 {
		select {
		case <-time.After(t.Delay):
		case <-ctx.Done():
			return tool.Result{}, ctx.Err()
		}
	}

	t.mu.Lock()
	t.Calls = append(t.Calls, "end:"+t.NameVal)
	t.mu.Unlock()

	return t.Fn(ctx, args, callCtx)
}

var _ tool.Tool[struct{}] = (*FuncTool[struct{}])(nil)

// TextResult builds a successful tool.Result carrying one text part.
func TextResult(text string) tool.Result {
	return tool.Result{Content: []content.Part{content.NewText(text)}}
}
