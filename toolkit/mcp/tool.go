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

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kadirpekel/agentrun/tool"
)

// remoteTool adapts one MCP server tool to tool.Tool[C]. The caller context
// C is never consulted: MCP tools are opaque remote calls, not functions of
// the caller's domain context.
type remoteTool[C any] struct {
	caller      *client.Client
	name        string
	description string
	schema      map[string]any
}

func (t *remoteTool[C]) Name() string              { return t.name }
func (t *remoteTool[C]) Description() string       { return t.description }
func (t *remoteTool[C]) Parameters() map[string]any { return t.schema }

func (t *remoteTool[C]) Execute(ctx context.Context, args json.RawMessage, callCtx C, state *tool.RunState) (tool.Result, error) {
	var decoded map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &decoded); err != nil {
			return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = t.name
	req.Params.Arguments = decoded

	resp, err := t.caller.CallTool(ctx, req)
	if err != nil {
		return tool.Result{}, fmt.Errorf("mcp: call tool %s: %w", t.name, err)
	}

	parts, err := toParts(resp.Content)
	if err != nil {
		return tool.Result{}, fmt.Errorf("mcp: decode result of %s: %w", t.name, err)
	}
	return tool.Result{Content: parts, IsError: resp.IsError}, nil
}
