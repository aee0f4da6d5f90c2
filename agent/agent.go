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

import "context"

// Agent is an immutable, reusable configuration that mints Sessions on
// demand. It holds no per-run state, so one Agent can serve many
// concurrent callers.
type Agent[C any] struct {
	params *Params[C]
}

// New builds an Agent from params. params is not copied; callers must not
// mutate it afterward.
func New[C any](params *Params[C]) *Agent[C] {
	return &Agent[C]{params: params}
}

// CreateSession resolves instructions and opens every configured toolkit
// for callCtx, producing a Session ready to Run. Callers own the returned
// Session and must Close it.
func (a *Agent[C]) CreateSession(ctx context.Context, callCtx C) (*Session[C], error) {
	return newSession(ctx, a.params, callCtx)
}

// Run creates a session, runs it once, and closes it. A failed run's error
// dominates: close is still attempted, but its error is swallowed unless
// the run itself succeeded.
func (a *Agent[C]) Run(ctx context.Context, req AgentRequest[C]) (AgentResponse, error) {
	session, err := a.CreateSession(ctx, req.Context)
	if err != nil {
		return AgentResponse{}, err
	}

	resp, runErr := session.Run(ctx, req.Input)
	closeErr := session.Close(ctx)

	if runErr != nil {
		return AgentResponse{}, runErr
	}
	if closeErr != nil {
		return AgentResponse{}, closeErr
	}
	return resp, nil
}
