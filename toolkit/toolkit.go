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

// Package toolkit defines dynamically resolved tool sets and system-prompt
// fragments whose availability depends on the caller-supplied context
// (for example, MCP servers the caller has authorized).
package toolkit

import (
	"context"

	"github.com/kadirpekel/agentrun/tool"
)

// Toolkit produces a ToolkitSession scoped to one run's context value.
type Toolkit[C any] interface {
	CreateSession(ctx context.Context, callCtx C) (ToolkitSession[C], error)
}

// ToolkitSession exposes dynamically resolved tools and an optional
// system-prompt fragment for the duration of one run. Close is idempotent.
type ToolkitSession[C any] interface {
	SystemPrompt() (prompt string, ok bool)
	Tools() []tool.Tool[C]
	Close(ctx context.Context) error
}
