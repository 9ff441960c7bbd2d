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

// Package supervisor implements the four in-process tools the Driver may
// call (§4.4): write_note, read_notes, slack_webhook, finished. Schemas
// are generated with invopop/jsonschema and offered to the Driver Client
// as its offered_tools; arguments are decoded back with
// mitchellh/mapstructure since they arrive as an open JSON value (§9).
package supervisor

import (
	"context"

	"github.com/kadirpekel/hector-driverloop/driverclient"
)

// Names of the four fixed tools, in the order §4.4 lists them.
const (
	ToolWriteNote     = "write_note"
	ToolReadNotes     = "read_notes"
	ToolSlackWebhook  = "slack_webhook"
	ToolFinished      = "finished"
)

// Result is one entry of the [{tool_call_id, tool_name, content}, …]
// list the Iteration Controller appends to the Conversation Log.
type Result struct {
	ToolCallID string
	ToolName   string
	Content    string
}

// Registry executes the fixed Supervisor tool set against one session's
// filesystem and environment.
type Registry struct {
	notesDir  string
	webhookEnv string
	onFinish  func(reason string)
}

// New builds a Registry rooted at notesDir (session_logs_dir/notes per
// §3), reading the Slack webhook URL from webhookEnv, and invoking
// onFinish when the finished tool is called.
func New(notesDir, webhookEnv string, onFinish func(reason string)) *Registry {
	return &Registry{notesDir: notesDir, webhookEnv: webhookEnv, onFinish: onFinish}
}

// Execute runs one tool call and returns its Result. It never returns a
// Go error: per §4.4/§7, tool failures are reported as ToolFailure
// content to the Driver, never fatal.
func (r *Registry) Execute(ctx context.Context, call driverclient.ToolCall) Result {
	switch call.Name {
	case ToolWriteNote:
		return r.writeNote(call)
	case ToolReadNotes:
		return r.readNotes(call)
	case ToolSlackWebhook:
		return r.slackWebhook(ctx, call)
	case ToolFinished:
		return r.finished(call)
	default:
		return Result{ToolCallID: call.ID, ToolName: call.Name, Content: "unknown tool: " + call.Name}
	}
}
