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

package httpclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewAppliesDefaultsAndOptions(t *testing.T) {
	c := New()
	if c.maxRetries != 5 {
		t.Errorf("expected maxRetries=5, got %d", c.maxRetries)
	}
	if c.baseDelay != 2*time.Second {
		t.Errorf("expected baseDelay=2s, got %v", c.baseDelay)
	}

	c = New(WithMaxRetries(2), WithBaseDelay(time.Millisecond))
	if c.maxRetries != 2 {
		t.Errorf("expected maxRetries=2, got %d", c.maxRetries)
	}
}

func TestDefaultStrategyClassifiesStatusCodes(t *testing.T) {
	cases := map[int]RetryStrategy{
		http.StatusOK:                  NoRetry,
		http.StatusTooManyRequests:     SmartRetry,
		http.StatusServiceUnavailable:  SmartRetry,
		http.StatusInternalServerError: ConservativeRetry,
		http.StatusBadRequest:          NoRetry,
	}
	for status, want := range cases {
		if got := DefaultStrategy(status); got != want {
			t.Errorf("DefaultStrategy(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestDoRetriesConservativelyThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(WithMaxRetries(3), WithBaseDelay(time.Millisecond))
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestDoReturnsRetryableErrorAfterExhaustingRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(WithMaxRetries(1), WithBaseDelay(time.Millisecond))
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	_, err = c.Do(req)
	if err == nil {
		t.Fatal("expected an error")
	}
	var retryErr *RetryableError
	if !errors.As(err, &retryErr) {
		t.Fatalf("expected *RetryableError, got %T", err)
	}
}

func TestParseOpenAIHeadersReadsRetryAfter(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "5")
	info := ParseOpenAIHeaders(h)
	if info.RetryAfter != 5*time.Second {
		t.Errorf("expected 5s, got %v", info.RetryAfter)
	}
}

func TestParseAnthropicHeadersReadsRemainingCounters(t *testing.T) {
	h := http.Header{}
	h.Set("anthropic-ratelimit-requests-remaining", "42")
	info := ParseAnthropicHeaders(h)
	if info.RequestsRemaining != 42 {
		t.Errorf("expected 42, got %d", info.RequestsRemaining)
	}
}
