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
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kadirpekel/agentrun/tool"
)

const protocolVersion = "2024-11-05"

var clientInfo = mcp.Implementation{Name: "agentrun", Version: "0.1.0"}

func connectStdio[C any](ctx context.Context, p Params) (*stdioSession[C], error) {
	env := make([]string, 0, len(p.Env))
	for k, v := range p.Env {
		env = append(env, k+"="+v)
	}

	mcpClient, err := client.NewStdioMCPClient(p.Command, env, p.Args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: spawn %s: %w", p.Command, err)
	}
	if err := mcpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start %s: %w", p.Command, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ClientInfo = clientInfo
	initReq.Params.ProtocolVersion = protocolVersion
	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("mcp: initialize %s: %w", p.Command, err)
	}

	listResp, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("mcp: list tools from %s: %w", p.Command, err)
	}

	tools := make([]tool.Tool[C], 0, len(listResp.Tools))
	for _, t := range listResp.Tools {
		if !p.allowed(t.Name) {
			continue
		}
		tools = append(tools, &remoteTool[C]{
			caller:      mcpClient,
			name:        t.Name,
			description: t.Description,
			schema:      toSchema(t.InputSchema),
		})
	}

	return &stdioSession[C]{client: mcpClient, tools: tools}, nil
}

// stdioSession is a ToolkitSession backed by a subprocess speaking MCP over
// stdin/stdout.
type stdioSession[C any] struct {
	client *client.Client
	tools  []tool.Tool[C]
}

func (s *stdioSession[C]) SystemPrompt() (string, bool) { return "", false }
func (s *stdioSession[C]) Tools() []tool.Tool[C]        { return s.tools }
func (s *stdioSession[C]) Close(ctx context.Context) error {
	return s.client.Close()
}
