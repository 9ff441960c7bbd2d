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

// Package eventdemux is the Event Demultiplexer of §4.5: it translates
// one submission's Agent event stream into a structured turn record,
// mediating approval requests inline. It defines its own output shape
// rather than importing convlog, so driverclient and agentrt never need
// to know about the Conversation Log — driverloop does the translation.
package eventdemux

// ToolCallRecord is one synthetic or mirrored tool call observed during
// a turn.
type ToolCallRecord struct {
	ID         string
	Name       string
	Arguments  map[string]any
	SystemKind bool
}

// ToolResponseRecord is one tool response observed or synthesised during
// a turn.
type ToolResponseRecord struct {
	ToolCallID string
	Content    string
}

// TurnResult is the Event Demultiplexer's output: (assistant_text,
// tool_calls[], reasoning?, tool_responses[]), per §4.5. Reasoning is
// "" when absent (empty reasoning buffer, §8 boundary behaviour).
type TurnResult struct {
	AssistantText string
	Reasoning     string
	ToolCalls     []ToolCallRecord
	ToolResponses []ToolResponseRecord

	// Finished is true when ToolCalls/ToolResponses include the
	// Supervisor finished marker surfaced through an mcp tool call (the
	// Agent-side path, distinct from the Driver-side finished call the
	// Iteration Controller handles directly).
	Finished bool
}
