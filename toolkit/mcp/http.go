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
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/httpclient"
	"github.com/kadirpekel/agentrun/tool"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

// httpSession is a ToolkitSession backed by an MCP streamable HTTP server.
type httpSession[C any] struct {
	http          *httpclient.Client
	url           string
	authorization string

	mu        sync.RWMutex
	sessionID string

	tools []tool.Tool[C]
}

func connectHTTP[C any](ctx context.Context, p Params) (*httpSession[C], error) {
	s := &httpSession[C]{
		// MaxRetries(0): a tools/call may have side effects on the remote
		// server, so a connection blip must surface as an error rather
		// than silently replay the call.
		http: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
			httpclient.WithMaxRetries(0),
		),
		url:           p.URL,
		authorization: p.Authorization,
	}

	initResp, err := s.call(ctx, "initialize", map[string]any{
		"protocolVersion": protocolVersion,
		"clientInfo":      map[string]any{"name": clientInfo.Name, "version": clientInfo.Version},
		"capabilities":    map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("mcp: initialize %s: %w", p.URL, err)
	}
	if initResp.Error != nil {
		return nil, fmt.Errorf("mcp: initialize %s: %s", p.URL, initResp.Error.Message)
	}

	listResp, err := s.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, fmt.Errorf("mcp: list tools from %s: %w", p.URL, err)
	}
	if listResp.Error != nil {
		return nil, fmt.Errorf("mcp: list tools from %s: %s", p.URL, listResp.Error.Message)
	}

	resultMap, ok := listResp.Result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("mcp: %s: tools/list returned no result object", p.URL)
	}
	rawTools, _ := resultMap["tools"].([]any)

	tools := make([]tool.Tool[C], 0, len(rawTools))
	for _, raw := range rawTools {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if !p.allowed(name) {
			continue
		}
		desc, _ := m["description"].(string)
		schema, _ := m["inputSchema"].(map[string]any)
		if schema == nil {
			schema = map[string]any{"type": "object", "properties": map[string]any{}, "required": []string{}}
		}
		tools = append(tools, &httpTool[C]{session: s, name: name, description: desc, schema: schema})
	}

	s.tools = tools
	return s, nil
}

func (s *httpSession[C]) SystemPrompt() (string, bool) { return "", false }
func (s *httpSession[C]) Tools() []tool.Tool[C]        { return s.tools }
func (s *httpSession[C]) Close(ctx context.Context) error {
	return nil
}

// call sends one JSON-RPC request and decodes its response, transparently
// handling both a plain JSON reply and a single-event SSE reply.
func (s *httpSession[C]) call(ctx context.Context, method string, params any) (*rpcResponse, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if s.authorization != "" {
		req.Header.Set("Authorization", "Bearer "+s.authorization)
	}
	s.mu.RLock()
	sid := s.sessionID
	s.mu.RUnlock()
	if sid != "" {
		req.Header.Set("mcp-session-id", sid)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if newSID := resp.Header.Get("mcp-session-id"); newSID != "" {
		s.mu.Lock()
		s.sessionID = newSID
		s.mu.Unlock()
	}

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(errBody))
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		return readSSEResponse(resp.Body)
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var out rpcResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// readSSEResponse reads the first complete JSON-RPC event from an SSE body.
func readSSEResponse(body io.ReadCloser) (*rpcResponse, error) {
	reader := bufio.NewReader(body)
	var data strings.Builder
	for {
		line, err := reader.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if data.Len() > 0 {
				var out rpcResponse
				if jerr := json.Unmarshal([]byte(data.String()), &out); jerr == nil {
					return &out, nil
				}
				data.Reset()
			}
		} else if rest, ok := strings.CutPrefix(trimmed, "data:"); ok {
			data.WriteString(strings.TrimSpace(rest))
		}
		if err != nil {
			if data.Len() > 0 {
				var out rpcResponse
				if jerr := json.Unmarshal([]byte(data.String()), &out); jerr == nil {
					return &out, nil
				}
			}
			return nil, fmt.Errorf("read sse stream: %w", err)
		}
	}
}

// httpTool calls one MCP tool over an httpSession's JSON-RPC connection.
type httpTool[C any] struct {
	session     *httpSession[C]
	name        string
	description string
	schema      map[string]any
}

func (t *httpTool[C]) Name() string              { return t.name }
func (t *httpTool[C]) Description() string       { return t.description }
func (t *httpTool[C]) Parameters() map[string]any { return t.schema }

func (t *httpTool[C]) Execute(ctx context.Context, args json.RawMessage, callCtx C, state *tool.RunState) (tool.Result, error) {
	var decoded map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &decoded); err != nil {
			return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}

	resp, err := t.session.call(ctx, "tools/call", map[string]any{"name": t.name, "arguments": decoded})
	if err != nil {
		return tool.Result{}, fmt.Errorf("mcp: call tool %s: %w", t.name, err)
	}
	if resp.Error != nil {
		return tool.ErrorResult(resp.Error.Message), nil
	}

	resultMap, ok := resp.Result.(map[string]any)
	if !ok {
		return tool.ErrorResult("mcp: malformed tools/call result"), nil
	}

	isError, _ := resultMap["isError"].(bool)
	rawContent, _ := resultMap["content"].([]any)
	parts := make([]content.Part, 0, len(rawContent))
	for _, rc := range rawContent {
		m, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		switch m["type"] {
		case "text":
			text, _ := m["text"].(string)
			parts = append(parts, content.NewText(text))
		case "image":
			data, _ := m["data"].(string)
			mime, _ := m["mimeType"].(string)
			parts = append(parts, content.NewImage(mime, data))
		case "audio":
			data, _ := m["data"].(string)
			mime, _ := m["mimeType"].(string)
			format, ferr := content.MIMEToFormat(mime)
			if ferr != nil {
				return tool.Result{}, fmt.Errorf("mcp audio content: %w", ferr)
			}
			parts = append(parts, content.NewAudio(data, format))
		default:
			continue
		}
	}

	return tool.Result{Content: parts, IsError: isError}, nil
}
