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

// Package convlog is the Conversation Log data model: the ordered,
// structured, machine-readable message list the Iteration Controller
// persists as JSON, and the rendering rule that turns it into the
// human-readable Context used as the Driver prompt's {context} variable.
package convlog

// Role identifies who produced a Record.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCallRef is how a Record references a tool call it is making or
// responding to. Arguments is an open JSON value (schemaless) per §9.
type ToolCallRef struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	// SystemKind marks synthetic tool calls (TaskStarted, TokenCount,
	// BackgroundEvent) that are filtered from the rendered
	// ASSISTANT_TOOL_CALLS context line per §3.
	SystemKind bool `json:"system_kind,omitempty"`
}

// Record is one entry in the Conversation Log. Only the fields relevant
// to Role are populated; see §3's per-role field list.
type Record struct {
	Role Role `json:"role"`

	// system: Content is the static system prompt.
	// user: Content is the driver/instruction text.
	// assistant: exactly one of Content, Reasoning, ToolCalls is set.
	// tool: Content is the tool response body.
	Content   string        `json:"content,omitempty"`
	Reasoning string        `json:"reasoning,omitempty"`
	ToolCalls []ToolCallRef `json:"tool_calls,omitempty"`

	// tool only.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// System builds the one-and-only system record.
func System(content string) Record {
	return Record{Role: RoleSystem, Content: content}
}

// User builds a plain user record.
func User(content string) Record {
	return Record{Role: RoleUser, Content: content}
}

// UserWithToolCalls builds a user record reporting Driver-side tool calls
// (§3: "optionally tool_calls when the user message reports results of
// Driver-side tool calls").
func UserWithToolCalls(content string, calls []ToolCallRef) Record {
	return Record{Role: RoleUser, Content: content, ToolCalls: calls}
}

// AssistantText builds a final assistant content record.
func AssistantText(content string) Record {
	return Record{Role: RoleAssistant, Content: content}
}

// AssistantReasoning builds an assistant reasoning record. Callers must
// not emit this for an empty reasoning buffer (§8 boundary behaviour).
func AssistantReasoning(text string) Record {
	return Record{Role: RoleAssistant, Reasoning: text}
}

// AssistantToolCalls builds an assistant tool-calls record.
func AssistantToolCalls(calls []ToolCallRef) Record {
	return Record{Role: RoleAssistant, ToolCalls: calls}
}

// ToolResponse builds a tool response record.
func ToolResponse(toolCallID, content string) Record {
	return Record{Role: RoleTool, ToolCallID: toolCallID, Content: content}
}
