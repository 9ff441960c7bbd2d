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
	"context"
	"os"
	"time"
)

const (
	defaultRequestRetries = 3
	defaultStreamRetries  = 5
	defaultIdleTimeout    = 30 * time.Second
)

// Client is the one Driver Client instance the Iteration Controller
// holds for the lifetime of a session.
type Client struct {
	http          *retryClient
	baseURL       string
	apiKey        string
	streamRetries int
}

// Option configures a Client, following the teacher's functional-options
// style (pkg/httpclient.Option).
type Option func(*Client)

// WithBaseURL overrides the provider endpoint, default
// "https://api.openai.com/v1/chat/completions".
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithStreamRetries overrides the number of stream-reconnect retries
// after the first attempt (0 means a single attempt).
func WithStreamRetries(n int) Option {
	return func(c *Client) { c.streamRetries = n }
}

// New builds a Client reading its provider API key from the environment
// (the variable name is owned by the provider adapter, not this spec,
// per §6). opts apply after the defaults.
func New(apiKeyEnvVar string, opts ...Option) *Client {
	c := &Client{
		http:          newRetryClient(defaultRequestRetries, defaultIdleTimeout),
		baseURL:       "https://api.openai.com/v1/chat/completions",
		apiKey:        os.Getenv(apiKeyEnvVar),
		streamRetries: defaultStreamRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// askCtx bundles the per-call arguments of one Ask call. Ask and
// decodeSSE take these values directly; nothing in the package builds an
// askCtx.
type askCtx struct {
	ctx          context.Context
	promptText   string
	modelID      string
	offeredTools []ToolDef
	history      []Message
}
