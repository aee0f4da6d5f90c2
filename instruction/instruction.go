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

// Package instruction resolves an agent's system prompt from a mix of
// literal strings and functions of the caller-supplied context, evaluated
// concurrently and joined in declaration order.
package instruction

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Func resolves one prompt fragment from the caller context. It may block
// (call an API, read a file); Resolve runs every fragment of a Param slice
// concurrently so the cost of one slow fragment is not paid serially.
type Func[C any] func(ctx context.Context, callCtx C) (string, error)

// Param is one instruction fragment: either a fixed string or a Func
// evaluated against the run's caller context.
type Param[C any] struct {
	literal string
	fn      Func[C]
	isFunc  bool
}

// Literal builds a fixed instruction fragment.
func Literal[C any](text string) Param[C] {
	return Param[C]{literal: text}
}

// FromFunc builds an instruction fragment resolved by calling fn.
func FromFunc[C any](fn Func[C]) Param[C] {
	return Param[C]{fn: fn, isFunc: true}
}

func (p Param[C]) resolve(ctx context.Context, callCtx C) (string, error) {
	if !p.isFunc {
		return p.literal, nil
	}
	return p.fn(ctx, callCtx)
}

// Resolve evaluates every fragment of params concurrently and joins the
// results with "\n" in declaration order. If any fragment fails, Resolve
// returns the first error to occur and cancels the others.
func Resolve[C any](ctx context.Context, params []Param[C], callCtx C) (string, error) {
	if len(params) == 0 {
		return "", nil
	}

	results := make([]string, len(params))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range params {
		i, p := i, p
		g.Go(func() error {
			text, err := p.resolve(gctx, callCtx)
			if err != nil {
				return err
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(results, "\n"), nil
}
