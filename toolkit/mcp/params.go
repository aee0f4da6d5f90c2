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

// Package mcp implements toolkit.Toolkit over the Model Context Protocol,
// connecting to a server over stdio or streamable HTTP and exposing its
// tools as tool.Tool values.
package mcp

import "context"

// Transport selects how a session connects to an MCP server.
type Transport string

const (
	// TransportStdio spawns Command as a subprocess and speaks MCP over its
	// stdin/stdout.
	TransportStdio Transport = "stdio"

	// TransportStreamableHTTP connects to URL using the MCP streamable HTTP
	// transport, optionally authenticated with a bearer token.
	TransportStreamableHTTP Transport = "streamable_http"
)

// Params configures one MCP server connection.
type Params struct {
	Transport Transport

	// Stdio transport.
	Command string
	Args    []string
	Env     map[string]string

	// Streamable HTTP transport.
	URL           string
	Authorization string

	// Filter restricts which server-advertised tools are exposed. A nil or
	// empty Filter exposes every tool the server lists.
	Filter []string
}

// Resolver produces Params for one run's caller context, mirroring the
// function shape of instruction.Func; Static covers the literal case.
type Resolver[C any] func(ctx context.Context, callCtx C) (Params, error)

// Static returns a Resolver that always yields the same Params, for servers
// whose connection details do not depend on the caller context.
func Static[C any](p Params) Resolver[C] {
	return func(ctx context.Context, callCtx C) (Params, error) {
		return p, nil
	}
}

func (p Params) allowed(name string) bool {
	if len(p.Filter) == 0 {
		return true
	}
	for _, f := range p.Filter {
		if f == name {
			return true
		}
	}
	return false
}
