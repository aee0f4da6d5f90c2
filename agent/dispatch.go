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

package agent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kadirpekel/agentrun/agenterrors"
	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/telemetry"
	"github.com/kadirpekel/agentrun/tool"
)

// dispatchTools executes every call concurrently against tools, preserving
// input order in the returned Parts regardless of completion order. The
// first call referencing an unknown tool name fails the whole dispatch
// with an Invariant error and cooperatively cancels the others in flight.
func dispatchTools[C any](ctx context.Context, calls []content.ToolCallPart, tools map[string]tool.Tool[C], callCtx C, state *tool.RunState) ([]content.Part, error) {
	results := make([]content.Part, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			t, ok := tools[call.ToolName]
			if !ok {
				_, span := telemetry.StartTool(gctx, call.ToolName, "", call.ToolCallID)
				err := agenterrors.Invariant("tool %s not found for tool call", call.ToolName)
				telemetry.End(span, err)
				return err
			}
			spanCtx, span := telemetry.StartTool(gctx, call.ToolName, t.Description(), call.ToolCallID)
			res, err := t.Execute(spanCtx, call.Args, callCtx, state)
			if err != nil {
				wrapped := agenterrors.FromToolExecution(fmt.Errorf("tool %s: %w", call.ToolName, err))
				telemetry.End(span, wrapped)
				return wrapped
			}
			telemetry.End(span, nil)
			results[i] = content.NewToolResult(call.ToolCallID, call.ToolName, res.Content, res.IsError)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
