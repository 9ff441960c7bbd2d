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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// chunk is one server-sent chat-completion delta, the shape the teacher's
// openai.go streaming client decodes.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
	} `json:"choices"`
}

// decodeSSE reads a text/event-stream body of chat-completion deltas and
// accumulates the final text and tool calls. Tool call argument
// fragments are concatenated by index across chunks, matching how
// streaming function-call arguments are delivered.
func decodeSSE(r io.Reader) (string, []ToolCall, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var text strings.Builder
	type partial struct {
		id   string
		name string
		args strings.Builder
	}
	byIndex := map[int]*partial{}
	var order []int

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if trimDone(data) {
			break
		}

		var c chunk
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return "", nil, fmt.Errorf("driverclient: malformed stream chunk: %w", err)
		}
		for _, choice := range c.Choices {
			text.WriteString(choice.Delta.Content)
			for _, tc := range choice.Delta.ToolCalls {
				p, ok := byIndex[tc.Index]
				if !ok {
					p = &partial{}
					byIndex[tc.Index] = p
					order = append(order, tc.Index)
				}
				if tc.ID != "" {
					p.id = tc.ID
				}
				if tc.Function.Name != "" {
					p.name = tc.Function.Name
				}
				p.args.WriteString(tc.Function.Arguments)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("driverclient: stream read failed: %w", err)
	}

	var calls []ToolCall
	for _, idx := range order {
		p := byIndex[idx]
		var args map[string]any
		if p.args.Len() > 0 {
			if err := json.Unmarshal([]byte(p.args.String()), &args); err != nil {
				return "", nil, fmt.Errorf("driverclient: malformed tool call arguments: %w", err)
			}
		}
		calls = append(calls, ToolCall{ID: p.id, Name: p.name, Arguments: args})
	}
	return text.String(), calls, nil
}
