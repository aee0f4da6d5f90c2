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

	"github.com/kadirpekel/agentrun/toolkit"
)

// Toolkit connects to one MCP server per session, resolving Params from the
// caller context each time a session is created.
type Toolkit[C any] struct {
	resolve Resolver[C]
}

// New builds a Toolkit that resolves its server connection with resolve.
func New[C any](resolve Resolver[C]) *Toolkit[C] {
	return &Toolkit[C]{resolve: resolve}
}

// NewStatic builds a Toolkit that always connects to the same server.
func NewStatic[C any](p Params) *Toolkit[C] {
	return New[C](Static[C](p))
}

func (t *Toolkit[C]) CreateSession(ctx context.Context, callCtx C) (toolkit.ToolkitSession[C], error) {
	p, err := t.resolve(ctx, callCtx)
	if err != nil {
		return nil, fmt.Errorf("mcp: resolve params: %w", err)
	}
	switch p.Transport {
	case TransportStreamableHTTP:
		return connectHTTP[C](ctx, p)
	case TransportStdio, "":
		return connectStdio[C](ctx, p)
	default:
		return nil, fmt.Errorf("mcp: unknown transport %q", p.Transport)
	}
}

var _ toolkit.Toolkit[struct{}] = (*Toolkit[struct{}])(nil)
