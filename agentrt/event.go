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

// Package agentrt is the boundary between the Iteration Controller and
// the tool-using Agent runtime conversation, modelled as message passing
// per §4.5/§9: a Handle exposes NextEvent and Submit, and the caller
// never reaches into the Agent's own state.
package agentrt

// EventType enumerates the Agent event stream vocabulary of §4.2.
type EventType string

const (
	EventAgentMessage             EventType = "agent_message"
	EventAgentReasoning           EventType = "agent_reasoning"
	EventExecCommandBegin         EventType = "exec_command_begin"
	EventExecCommandEnd           EventType = "exec_command_end"
	EventMcpToolCallBegin         EventType = "mcp_tool_call_begin"
	EventMcpToolCallEnd           EventType = "mcp_tool_call_end"
	EventExecApprovalRequest      EventType = "exec_approval_request"
	EventApplyPatchApprovalRequest EventType = "apply_patch_approval_request"
	EventPatchApplyBegin          EventType = "patch_apply_begin"
	EventPatchApplyEnd            EventType = "patch_apply_end"
	EventTaskStarted              EventType = "task_started"
	EventTokenCount               EventType = "token_count"
	EventBackgroundEvent          EventType = "background_event"
	EventTaskComplete              EventType = "task_complete"
	EventError                    EventType = "error"
)

// Event is one record from the Agent event stream. Only the fields
// relevant to Type are populated.
type Event struct {
	Type EventType

	SubmissionID string
	CallID       string

	// agent_message / agent_reasoning
	Text string

	// exec_command_begin / exec_command_end
	Command    []string
	Cwd        string
	ExitCode   int
	Stdout     string
	Stderr     string

	// mcp_tool_call_begin / mcp_tool_call_end
	ToolName  string
	Arguments map[string]any
	Result    string
	IsError   bool

	// exec_approval_request / apply_patch_approval_request. The Event
	// Demultiplexer reads Reason here, Command/Cwd for exec requests and
	// Changes for patch requests; it does not read Patch.
	Reason string
	Patch  string

	// patch_apply_begin / patch_apply_end (and apply_patch_approval_request)
	Changes string
	Success bool

	// token_count
	InputTokens  int
	OutputTokens int

	// background_event
	Message string

	// error
	ErrorMessage string
}
