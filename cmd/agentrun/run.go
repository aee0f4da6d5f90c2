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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kadirpekel/agentrun/agent"
	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/instruction"
	"github.com/kadirpekel/agentrun/llm"
	"github.com/kadirpekel/agentrun/provider/anthropic"
	"github.com/kadirpekel/agentrun/provider/openai"
	"github.com/kadirpekel/agentrun/telemetry"
	"github.com/kadirpekel/agentrun/tool"
	"github.com/kadirpekel/agentrun/tool/functiontool"
)

// RunCmd runs the agent once (up to --max-turns model invocations) against
// a live provider and prints the model's final text response.
type RunCmd struct {
	Provider    string  `help:"LLM provider (openai, anthropic)." default:"openai"`
	Model       string  `help:"Model name. Defaults to the provider's default model."`
	APIKey      string  `name:"api-key" help:"API key. Defaults to OPENAI_API_KEY / ANTHROPIC_API_KEY."`
	BaseURL     string  `name:"base-url" help:"Custom API base URL."`
	Temperature float64 `help:"Sampling temperature." default:"0.7"`
	MaxTokens   int     `name:"max-tokens" help:"Max output tokens (anthropic only)." default:"1024"`
	System      string  `help:"System instruction for the agent." default:"You are a helpful assistant."`
	Prompt      string  `arg:"" help:"Prompt to send to the agent."`
	MaxTurns    int     `name:"max-turns" help:"Maximum model invocations per run." default:"10"`

	Observe bool `help:"Emit OpenTelemetry spans to stdout."`
}

type runContext struct{}

func (c *RunCmd) Run(ctx context.Context) error {
	model, err := c.buildModel()
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}

	telCfg := telemetry.Config{ServiceName: "agentrun"}
	if c.Observe {
		telCfg.Enabled = true
		telCfg.Exporter = telemetry.ExporterStdout
	}
	manager, err := telemetry.NewManager(ctx, telCfg, false)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer manager.Shutdown(ctx)

	weatherTool := functiontool.New(
		"get_weather",
		"Looks up the current weather for a city.",
		func(ctx context.Context, args struct {
			City string `json:"city" jsonschema:"required,description=City to look up"`
		}, callCtx runContext, state *tool.RunState) (tool.Result, error) {
			return functiontool.TextResult(fmt.Sprintf("it's sunny and 72F in %s", args.City)), nil
		},
	)

	maxTurns := c.MaxTurns
	a := agent.New(&agent.Params[runContext]{
		Name:  "cli-demo",
		Model: model,
		Instructions: []instruction.Param[runContext]{
			instruction.Literal[runContext](c.System),
		},
		Tools:    []tool.Tool[runContext]{weatherTool},
		MaxTurns: &maxTurns,
	})

	resp, err := a.Run(ctx, agent.AgentRequest[runContext]{
		Context: runContext{},
		Input:   []agent.AgentItem{agent.MessageItem{Message: content.NewUserMessage(content.NewText(c.Prompt))}},
	})
	if err != nil {
		return fmt.Errorf("run agent: %w", err)
	}

	for _, part := range resp.Content {
		if tp, ok := part.(content.TextPart); ok {
			fmt.Println(tp.Text)
		}
	}
	return nil
}

func (c *RunCmd) buildModel() (llm.LanguageModel, error) {
	switch c.Provider {
	case "anthropic":
		apiKey := c.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		maxTokens := c.MaxTokens
		return anthropic.New(anthropic.Config{
			APIKey:      apiKey,
			Model:       c.Model,
			BaseURL:     c.BaseURL,
			MaxTokens:   maxTokens,
			Temperature: &c.Temperature,
		})
	case "openai", "":
		apiKey := c.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.New(openai.Config{
			APIKey:      apiKey,
			Model:       c.Model,
			BaseURL:     c.BaseURL,
			Temperature: &c.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", c.Provider)
	}
}
