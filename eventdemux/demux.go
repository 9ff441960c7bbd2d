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

package eventdemux

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kadirpekel/hector-driverloop/agentrt"
	"github.com/kadirpekel/hector-driverloop/driverclient"
	"github.com/kadirpekel/hector-driverloop/prompt"
)

const (
	bugcrowdSubmitTool = "bugcrowd_submit"
	finishedTool       = "finished"
)

// Demuxer runs one submission's Agent event stream to completion,
// mediating approval requests via the Driver Client.
type Demuxer struct {
	handle      agentrt.Handle
	driver      *driverclient.Client
	templates   *prompt.Engine
	modelID     string
	taskContext string
}

// New builds a Demuxer bound to one Agent handle. modelID and
// taskContext are forwarded into the approval-gate templates.
func New(handle agentrt.Handle, driver *driverclient.Client, templates *prompt.Engine, modelID, taskContext string) *Demuxer {
	return &Demuxer{handle: handle, driver: driver, templates: templates, modelID: modelID, taskContext: taskContext}
}

// Run consumes events for submissionID until TaskComplete, Error, or the
// stream ends, per §4.5. Events tagged with a different submission id
// are discarded.
func (d *Demuxer) Run(ctx context.Context, submissionID string) (TurnResult, error) {
	var (
		assistantText string
		reasoning     string
		denied        = map[string]bool{}
		result        TurnResult
	)

	for {
		ev, ok, err := d.handle.NextEvent(ctx)
		if err != nil {
			return TurnResult{}, fmt.Errorf("eventdemux: agent stream error: %w", err)
		}
		if !ok {
			break
		}
		if ev.SubmissionID != submissionID {
			continue
		}

		switch ev.Type {
		case agentrt.EventAgentMessage:
			assistantText += ev.Text

		case agentrt.EventAgentReasoning:
			reasoning += ev.Text

		case agentrt.EventExecCommandBegin:
			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{
				ID:        "exec_" + ev.CallID,
				Name:      "bash",
				Arguments: map[string]any{"command": ev.Command, "cwd": ev.Cwd},
			})

		case agentrt.EventExecCommandEnd:
			payload, _ := json.Marshal(map[string]any{
				"exit_code": ev.ExitCode,
				"stdout":    ev.Stdout,
				"stderr":    ev.Stderr,
			})
			result.ToolResponses = append(result.ToolResponses, ToolResponseRecord{
				ToolCallID: "exec_" + ev.CallID,
				Content:    string(payload),
			})

		case agentrt.EventMcpToolCallBegin:
			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{
				ID:        ev.CallID,
				Name:      ev.ToolName,
				Arguments: ev.Arguments,
			})
			if ev.ToolName == finishedTool {
				result.Finished = true
			}
			if ev.ToolName == bugcrowdSubmitTool {
				approved, reason, gateErr := d.bugcrowdGate(ctx, ev)
				if gateErr != nil {
					return TurnResult{}, gateErr
				}
				if !approved {
					denied[ev.CallID] = true
					result.ToolResponses = append(result.ToolResponses, ToolResponseRecord{
						ToolCallID: ev.CallID,
						Content:    "❌ Bugcrowd submission denied by security review: " + reason,
					})
				}
			}

		case agentrt.EventMcpToolCallEnd:
			if denied[ev.CallID] {
				continue
			}
			content := ev.Result
			if ev.IsError {
				content = "Error: " + ev.Result
			}
			result.ToolResponses = append(result.ToolResponses, ToolResponseRecord{ToolCallID: ev.CallID, Content: content})

		case agentrt.EventExecApprovalRequest:
			if err := d.generalGate(ctx, ev, agentrt.OpExecApproval, &result); err != nil {
				return TurnResult{}, err
			}

		case agentrt.EventApplyPatchApprovalRequest:
			if err := d.generalGate(ctx, ev, agentrt.OpPatchApproval, &result); err != nil {
				return TurnResult{}, err
			}

		case agentrt.EventTaskStarted:
			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{ID: "task_started_" + ev.CallID, Name: "task_started", SystemKind: true})

		case agentrt.EventTokenCount:
			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{ID: "token_count_" + ev.CallID, Name: "token_count", SystemKind: true, Arguments: map[string]any{"input_tokens": ev.InputTokens, "output_tokens": ev.OutputTokens}})

		case agentrt.EventBackgroundEvent:
			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{ID: "background_event_" + ev.CallID, Name: "background_event", SystemKind: true, Arguments: map[string]any{"message": ev.Message}})

		case agentrt.EventPatchApplyBegin:
			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{ID: "patch_apply_" + ev.CallID, Name: "apply_patch", Arguments: map[string]any{"changes": ev.Changes}})

		case agentrt.EventPatchApplyEnd:
			result.ToolResponses = append(result.ToolResponses, ToolResponseRecord{ToolCallID: "patch_apply_" + ev.CallID, Content: fmt.Sprintf("success=%v", ev.Success)})

		case agentrt.EventTaskComplete:
			result.AssistantText = assistantText
			result.Reasoning = reasoning
			return result, nil

		case agentrt.EventError:
			return TurnResult{}, fmt.Errorf("eventdemux: agent reported error: %s", ev.ErrorMessage)
		}
	}

	result.AssistantText = assistantText
	result.Reasoning = reasoning
	return result, nil
}

func (d *Demuxer) bugcrowdGate(ctx context.Context, ev agentrt.Event) (approved bool, reason string, err error) {
	argsJSON, _ := json.Marshal(ev.Arguments)
	text, err := d.templates.Render(prompt.BugcrowdApproval, prompt.Vars{Tool: ev.ToolName, Arguments: string(argsJSON)})
	if err != nil {
		return false, "", fmt.Errorf("eventdemux: failed to render bugcrowd_approval template: %w", err)
	}
	response, _, err := d.driver.Ask(ctx, text, d.modelID, nil, nil)
	if err != nil {
		return false, "", fmt.Errorf("eventdemux: bugcrowd approval gate driver call failed: %w", err)
	}
	approved, reason = parseApprovalResponse(response)
	return approved, reason, nil
}

func (d *Demuxer) generalGate(ctx context.Context, ev agentrt.Event, kind agentrt.OpKind, result *TurnResult) error {
	text, err := d.templates.Render(prompt.Approval, prompt.Vars{
		Command:     fmt.Sprintf("%v", ev.Command),
		Cwd:         ev.Cwd,
		Reason:      ev.Reason,
		TaskContext: d.taskContext,
		Changes:     ev.Changes,
	})
	if err != nil {
		return fmt.Errorf("eventdemux: failed to render approval template: %w", err)
	}
	response, _, err := d.driver.Ask(ctx, text, d.modelID, nil, nil)
	if err != nil {
		return fmt.Errorf("eventdemux: approval gate driver call failed: %w", err)
	}
	approved := parseGeneralApproval(response)

	decision := agentrt.Denied
	decisionStr := "Denied"
	if approved {
		decision = agentrt.Approved
		decisionStr = "Approved"
	}

	callID := "request_approval_" + ev.CallID
	result.ToolCalls = append(result.ToolCalls, ToolCallRecord{
		ID:        callID,
		Name:      "request_approval",
		Arguments: map[string]any{"command": ev.Command, "cwd": ev.Cwd, "reason": ev.Reason},
	})
	payload, _ := json.Marshal(map[string]any{"decision": decisionStr})
	result.ToolResponses = append(result.ToolResponses, ToolResponseRecord{ToolCallID: callID, Content: string(payload)})

	if _, err := d.handle.Submit(ctx, agentrt.Op{Kind: kind, CallID: ev.CallID, Decision: decision}); err != nil {
		return fmt.Errorf("eventdemux: failed to submit approval decision: %w", err)
	}
	return nil
}
