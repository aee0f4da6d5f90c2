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

// Package openai implements llm.LanguageModel against OpenAI's Responses
// API (/v1/responses), including SSE streaming and reasoning-effort
// mapping for o1/o3/o4/gpt-5-class models.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/kadirpekel/agentrun/agenterrors"
	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/httpclient"
	"github.com/kadirpekel/agentrun/llm"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"
	defaultTimeout = 120 * time.Second

	reasoningEffortLowThreshold    = 1024
	reasoningEffortMediumThreshold = 8192
)

// Config configures a Client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	Reasoning   *llm.ReasoningConfig
	Temperature *float64
}

// Client implements llm.LanguageModel against OpenAI's Responses API.
type Client struct {
	http    *httpclient.Client
	apiKey  string
	baseURL string
	model   string
	cfg     Config
}

// New builds a Client. APIKey is required.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 5
	}

	return &Client{
		http: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: timeout}),
			httpclient.WithMaxRetries(maxRetries),
			httpclient.WithHeaderParser(httpclient.ParseOpenAIHeaders),
		),
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		cfg:     cfg,
	}, nil
}

func (c *Client) Provider() string { return "openai" }
func (c *Client) ModelID() string  { return c.model }

func (c *Client) Metadata() llm.Metadata {
	return llm.Metadata{
		Provider: "openai",
		ModelID:  c.model,
		Capabilities: llm.Capabilities{
			FunctionCalling:  true,
			ImageInput:       true,
			StructuredOutput: true,
			Reasoning:        c.isReasoningModel(),
		},
	}
}

func (c *Client) isReasoningModel() bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(c.model, prefix) {
			return true
		}
	}
	return false
}

func (c *Client) reasoningEffort(budget int) string {
	switch {
	case budget <= reasoningEffortLowThreshold:
		return "low"
	case budget <= reasoningEffortMediumThreshold:
		return "medium"
	default:
		return "high"
	}
}

func (c *Client) responsesURL() string { return c.baseURL + "/responses" }

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// Generate performs one non-streaming call.
func (c *Client) Generate(ctx context.Context, in *llm.LanguageModelInput) (*content.ModelResponse, error) {
	apiReq, err := c.buildRequest(in, false)
	if err != nil {
		return nil, agenterrors.InvalidInput("openai", err.Error())
	}

	resp, err := c.do(ctx, apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp responsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, agenterrors.Transport("openai", fmt.Errorf("decode response: %w", err))
	}
	return c.parseResponse(&apiResp)
}

func (c *Client) do(ctx context.Context, apiReq *responsesRequest) (*http.Response, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, agenterrors.Transport("openai", fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.responsesURL(), bytes.NewReader(body))
	if err != nil {
		return nil, agenterrors.Transport("openai", fmt.Errorf("build request: %w", err))
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if resp != nil && resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, agenterrors.StatusCode("openai", resp.StatusCode, string(body))
	}
	if err != nil {
		return nil, agenterrors.Transport("openai", err)
	}
	return resp, nil
}

// Stream performs one streaming call over SSE.
func (c *Client) Stream(ctx context.Context, in *llm.LanguageModelInput) iter.Seq2[*content.PartialModelResponse, error] {
	return func(yield func(*content.PartialModelResponse, error) bool) {
		apiReq, err := c.buildRequest(in, true)
		if err != nil {
			yield(nil, agenterrors.InvalidInput("openai", err.Error()))
			return
		}

		resp, err := c.do(ctx, apiReq)
		if err != nil {
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		reader := bufio.NewReader(resp.Body)
		state := newStreamState()
		var eventType string

		for {
			line, readErr := reader.ReadBytes('\n')
			line = bytes.TrimSpace(line)

			switch {
			case len(line) == 0:
				// blank line separates events; nothing to flush here
			case bytes.HasPrefix(line, []byte("event: ")):
				eventType = string(bytes.TrimSpace(line[len("event: "):]))
			case bytes.HasPrefix(line, []byte("data: ")):
				var raw map[string]any
				if jsonErr := json.Unmarshal(line[len("data: "):], &raw); jsonErr == nil {
					et := eventType
					if et == "" {
						et, _ = raw["type"].(string)
					}
					for delta, derr := range processStreamEvent(raw, et, state) {
						if !yield(delta, derr) {
							return
						}
					}
				}
				eventType = ""
			}

			if readErr != nil {
				if readErr != io.EOF {
					yield(nil, agenterrors.Transport("openai", fmt.Errorf("stream read: %w", readErr)))
				}
				return
			}
		}
	}
}

var _ llm.LanguageModel = (*Client)(nil)
