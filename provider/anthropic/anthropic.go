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

// Package anthropic implements llm.LanguageModel against Anthropic's
// Messages API (/v1/messages), including SSE streaming and interleaved
// extended-thinking blocks.
package anthropic

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
	defaultBaseURL   = "https://api.anthropic.com"
	apiVersion       = "2023-06-01"
	betaThinking     = "interleaved-thinking-2025-05-14"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
	defaultTimeout   = 120 * time.Second

	// Anthropic requires temperature 1.0 whenever thinking is enabled.
	thinkingTemperature = 1.0
)

// Config configures a Client.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature *float64
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
}

// Client implements llm.LanguageModel against Anthropic's Messages API.
type Client struct {
	http      *httpclient.Client
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	cfg       Config
}

// New builds a Client. APIKey is required.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
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
			httpclient.WithHeaderParser(httpclient.ParseAnthropicHeaders),
		),
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		model:     model,
		maxTokens: maxTokens,
		cfg:       cfg,
	}, nil
}

func (c *Client) Provider() string { return "anthropic" }
func (c *Client) ModelID() string  { return c.model }

func (c *Client) Metadata() llm.Metadata {
	return llm.Metadata{
		Provider: "anthropic",
		ModelID:  c.model,
		Capabilities: llm.Capabilities{
			FunctionCalling: true,
			ImageInput:      true,
			Citations:       true,
			Reasoning:       true,
		},
	}
}

func (c *Client) messagesURL() string { return c.baseURL + "/v1/messages" }

func (c *Client) setHeaders(req *http.Request, thinking bool) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	if thinking {
		req.Header.Set("anthropic-beta", betaThinking)
	}
}

// Generate performs one non-streaming call.
func (c *Client) Generate(ctx context.Context, in *llm.LanguageModelInput) (*content.ModelResponse, error) {
	apiReq := c.buildRequest(in, false)

	resp, err := c.do(ctx, apiReq, apiReq.Thinking != nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, agenterrors.Transport("anthropic", fmt.Errorf("decode response: %w", err))
	}
	return parseResponse(&apiResp), nil
}

func (c *Client) do(ctx context.Context, apiReq *apiRequest, thinking bool) (*http.Response, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, agenterrors.Transport("anthropic", fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.messagesURL(), bytes.NewReader(body))
	if err != nil {
		return nil, agenterrors.Transport("anthropic", fmt.Errorf("build request: %w", err))
	}
	c.setHeaders(httpReq, thinking)

	resp, err := c.http.Do(httpReq)
	if resp != nil && resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, agenterrors.StatusCode("anthropic", resp.StatusCode, string(body))
	}
	if err != nil {
		return nil, agenterrors.Transport("anthropic", err)
	}
	return resp, nil
}

// Stream performs one streaming call over SSE.
func (c *Client) Stream(ctx context.Context, in *llm.LanguageModelInput) iter.Seq2[*content.PartialModelResponse, error] {
	return func(yield func(*content.PartialModelResponse, error) bool) {
		apiReq := c.buildRequest(in, true)

		resp, err := c.do(ctx, apiReq, apiReq.Thinking != nil)
		if err != nil {
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		reader := bufio.NewReader(resp.Body)
		state := newStreamState()

		for {
			line, readErr := reader.ReadString('\n')
			line = strings.TrimSpace(line)

			if rest, ok := strings.CutPrefix(line, "data: "); ok && rest != "[DONE]" {
				var event streamEvent
				if jsonErr := json.Unmarshal([]byte(rest), &event); jsonErr == nil {
					for delta, derr := range processStreamEvent(&event, state) {
						if !yield(delta, derr) {
							return
						}
					}
				}
			}

			if readErr != nil {
				if readErr != io.EOF {
					yield(nil, agenterrors.Transport("anthropic", fmt.Errorf("stream read: %w", readErr)))
				}
				return
			}
		}
	}
}

var _ llm.LanguageModel = (*Client)(nil)
