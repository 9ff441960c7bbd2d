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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// wireMessage is the provider-facing chat message shape.
type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type wireTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description,omitempty"`
		Parameters  map[string]any `json:"parameters,omitempty"`
	} `json:"function"`
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Tools    []wireTool    `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

// Ask issues a single request/response turn to the Driver model, per
// §4.2. It does not itself perform the "single follow-up turn" the
// model-level contract describes — that turn is the Iteration
// Controller calling Ask a second time with tool results folded into
// history (§5 step 4), keeping this Client genuinely stateless.
func (c *Client) Ask(ctx context.Context, promptText, modelID string, offeredTools []ToolDef, history []Message) (string, []ToolCall, error) {
	req := wireRequest{
		Model:  modelID,
		Stream: true,
	}
	for _, m := range history {
		req.Messages = append(req.Messages, toWireMessage(m))
	}
	req.Messages = append(req.Messages, wireMessage{Role: string(RoleUser), Content: promptText})
	for _, t := range offeredTools {
		wt := wireTool{Type: "function"}
		wt.Function.Name = t.Name
		wt.Function.Description = t.Description
		wt.Function.Parameters = t.Parameters
		req.Tools = append(req.Tools, wt)
	}

	var lastErr error
	for attempt := 0; attempt <= c.streamRetries; attempt++ {
		text, calls, err := c.attemptStream(ctx, req)
		if err == nil {
			if text == "" && len(calls) == 0 {
				return "", nil, &DriverError{Kind: KindEmptyResponse}
			}
			return text, calls, nil
		}
		lastErr = err
		if attempt < c.streamRetries {
			slog.Warn("driver client stream retry", "attempt", attempt+1, "max", c.streamRetries, "error", err)
		}
	}
	return "", nil, &DriverError{Kind: KindTransportExhausted, Err: lastErr}
}

func (c *Client) attemptStream(ctx context.Context, req wireRequest) (string, []ToolCall, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", nil, fmt.Errorf("driverclient: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("driverclient: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.do(httpReq)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	return decodeSSE(resp.Body)
}

func toWireMessage(m Message) wireMessage {
	wm := wireMessage{Role: string(m.Role), Content: m.Content, ToolCallID: m.ToolCallID}
	for _, tc := range m.ToolCalls {
		args, _ := json.Marshal(tc.Arguments)
		wtc := wireToolCall{ID: tc.ID, Type: "function"}
		wtc.Function.Name = tc.Name
		wtc.Function.Arguments = string(args)
		wm.ToolCalls = append(wm.ToolCalls, wtc)
	}
	return wm
}

// trimDone reports whether an SSE data line signals end of stream.
func trimDone(line string) bool {
	return strings.TrimSpace(line) == "[DONE]"
}
