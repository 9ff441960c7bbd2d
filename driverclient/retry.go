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

package driverclient

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// retryClient wraps http.Client with exponential backoff retry, the same
// shape as the teacher's pkg/httpclient.Client, trimmed to the one
// provider family the Driver Client needs.
type retryClient struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func newRetryClient(maxRetries int, idleTimeout time.Duration) *retryClient {
	return &retryClient{
		client:     &http.Client{Timeout: idleTimeout},
		maxRetries: maxRetries,
		baseDelay:  2 * time.Second,
		maxDelay:   30 * time.Second,
	}
}

func (c *retryClient) do(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("driverclient: failed to read request body: %w", err)
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 && bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := c.client.Do(req)
		if err == nil && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if resp != nil {
			resp.Body.Close()
		}
		lastErr = err
		if err == nil {
			lastErr = fmt.Errorf("driverclient: transient status %d", resp.StatusCode)
		}

		if attempt >= c.maxRetries {
			break
		}
		delay := c.backoff(attempt)
		slog.Warn("driver client transport retry", "attempt", attempt+1, "max", c.maxRetries, "delay", delay, "error", lastErr)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("driverclient: request retries exhausted: %w", lastErr)
}

func (c *retryClient) backoff(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * c.baseDelay
	jitter := time.Duration(rand.Float64() * float64(delay) * 0.1)
	d := delay + jitter
	if d > c.maxDelay {
		return c.maxDelay
	}
	return d
}
