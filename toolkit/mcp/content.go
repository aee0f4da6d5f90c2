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
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kadirpekel/agentrun/content"
)

// toParts maps MCP tool-result content blocks onto Parts. Resource and
// resource-link blocks carry no portable representation in the content
// model and are dropped rather than failing the call.
func toParts(blocks []mcp.Content) ([]content.Part, error) {
	parts := make([]content.Part, 0, len(blocks))
	for _, block := range blocks {
		switch b := block.(type) {
		case mcp.TextContent:
			parts = append(parts, content.NewText(b.Text))
		case mcp.ImageContent:
			parts = append(parts, content.NewImage(b.MIMEType, b.Data))
		case mcp.AudioContent:
			format, err := content.MIMEToFormat(b.MIMEType)
			if err != nil {
				return nil, fmt.Errorf("mcp audio content: %w", err)
			}
			parts = append(parts, content.NewAudio(b.Data, format))
		default:
			continue
		}
	}
	return parts, nil
}

// toSchema converts an MCP tool's JSON-schema input definition into the
// map shape tool.Tool.Parameters returns, round-tripping through JSON
// rather than reading fields directly so it tracks whatever shape the
// server actually sent.
func toSchema(in mcp.ToolInputSchema) map[string]any {
	data, err := json.Marshal(in)
	if err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}, "required": []string{}}
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}, "required": []string{}}
	}
	if _, ok := schema["required"]; !ok {
		schema["required"] = []string{}
	}
	return schema
}
