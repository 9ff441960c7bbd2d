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

package driverloop

import (
	"context"
	"fmt"

	"github.com/kadirpekel/hector-driverloop/agentrt"
	"github.com/kadirpekel/hector-driverloop/convlog"
	"github.com/kadirpekel/hector-driverloop/driverclient"
	"github.com/kadirpekel/hector-driverloop/internal/observability"
	"github.com/kadirpekel/hector-driverloop/prompt"
	"github.com/kadirpekel/hector-driverloop/supervisor"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// turn runs one full iteration: §4.6 steps 3-7.
func (c *Controller) turn(ctx context.Context) error {
	c.session.IterationIndex++

	if c.tracer != nil {
		var span trace.Span
		ctx, span = observability.StartIteration(ctx, c.tracer, c.session.IterationIndex)
		defer span.End()
	}
	if c.metrics != nil {
		c.metrics.Iterations.Add(ctx, 1)
	}

	templateName := prompt.Continuation
	if c.session.IterationIndex == 1 {
		templateName = prompt.Initial
	}

	summarised, err := c.maybeSummarise(ctx)
	if err != nil {
		return err
	}

	driverPrompt, err := c.templates.Render(templateName, prompt.Vars{
		ConfigYAML: c.session.ConfigContent,
		Context:    c.session.Context,
	})
	if err != nil {
		return fatalConfig("failed to render %s template: %w", templateName, err)
	}
	if c.counter.Count(driverPrompt) > MaxTokens-TokenBuffer {
		return fatalConfig("driver prompt still exceeds token budget after summarisation")
	}

	logLenBeforeTurn := len(c.session.Log)

	finalInstruction, err := c.driverTurn(ctx, driverPrompt)
	if err != nil {
		return err
	}

	if err := c.agentTurn(ctx, finalInstruction); err != nil {
		return err
	}

	c.rebuildContext(summarised, logLenBeforeTurn)

	if err := c.session.writeCheckpoint("running"); err != nil {
		logCheckpointFailure(err)
	}
	return nil
}

// maybeSummarise implements §4.6 step 3's Summariser invocation.
func (c *Controller) maybeSummarise(ctx context.Context) (bool, error) {
	if c.counter.Count(c.session.Context) <= MaxTokens-TokenBuffer {
		return false, nil
	}

	summaryPrompt, err := c.templates.Render(prompt.Summarization, prompt.Vars{Context: c.session.Context})
	if err != nil {
		return false, fatalConfig("failed to render summarization template: %w", err)
	}
	summary, _, err := c.askDriver(ctx, string(prompt.Summarization), summaryPrompt, nil, nil)
	if err != nil {
		return false, driverTransport(err)
	}
	c.session.Context = summary
	return true, nil
}

// askDriver wraps driver.Ask with the one-span-per-Driver-Client-call
// and token-count instrumentation SPEC_FULL.md's domain stack section
// describes.
func (c *Controller) askDriver(ctx context.Context, templateName, driverPrompt string, tools []driverclient.ToolDef, history []driverclient.Message) (string, []driverclient.ToolCall, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = observability.StartDriverCall(ctx, c.tracer, templateName)
		defer span.End()
	}
	text, calls, err := c.driver.Ask(ctx, driverPrompt, c.session.DriverModel, tools, history)
	if c.metrics != nil {
		c.metrics.Tokens.Add(ctx, int64(c.counter.Count(driverPrompt)+c.counter.Count(text)))
	}
	return text, calls, err
}

// driverTurn implements §4.6 step 4, returning the final_instruction
// text to submit to the Agent.
func (c *Controller) driverTurn(ctx context.Context, driverPrompt string) (string, error) {
	text, calls, err := c.askDriver(ctx, "driver_turn", driverPrompt, supervisor.OfferedTools(), nil)
	if err != nil {
		return "", driverTransport(err)
	}

	if len(calls) == 0 {
		c.session.Log = append(c.session.Log, convlog.User(text))
		return text, nil
	}

	toolRefs := make([]convlog.ToolCallRef, 0, len(calls))
	for _, call := range calls {
		toolRefs = append(toolRefs, convlog.ToolCallRef{ID: call.ID, Name: call.Name, Arguments: call.Arguments})
	}
	c.session.Log = append(c.session.Log, convlog.UserWithToolCalls(text, toolRefs))

	// §4.2: the follow-up turn must see the assistant's tool-call message
	// and the tool results, not just the original prompt again.
	history := []driverclient.Message{{Role: driverclient.RoleAssistant, Content: text, ToolCalls: calls}}
	for _, call := range calls {
		result := c.tools.Execute(ctx, call)
		if c.metrics != nil {
			c.metrics.ToolCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", result.ToolName)))
		}
		c.session.Log = append(c.session.Log, convlog.ToolResponse(result.ToolCallID, result.Content))
		history = append(history, driverclient.Message{Role: driverclient.RoleTool, Content: result.Content, ToolCallID: result.ToolCallID})
	}

	finalText, _, err := c.askDriver(ctx, "driver_turn_followup", driverPrompt, nil, history)
	if err != nil {
		return "", driverTransport(err)
	}
	c.session.Log = append(c.session.Log, convlog.User(finalText))
	return finalText, nil
}

// agentTurn implements §4.6 step 5.
func (c *Controller) agentTurn(ctx context.Context, finalInstruction string) error {
	subID, err := c.handle.Submit(ctx, agentrt.Op{Kind: agentrt.OpUserInput, Text: finalInstruction})
	if err != nil {
		return agentStream(fmt.Errorf("failed to submit user input: %w", err))
	}

	result, err := c.demux.Run(ctx, subID)
	if err != nil {
		return agentStream(err)
	}

	if result.Reasoning != "" {
		c.session.Log = append(c.session.Log, convlog.AssistantReasoning(result.Reasoning))
	}
	if len(result.ToolCalls) > 0 {
		refs := make([]convlog.ToolCallRef, 0, len(result.ToolCalls))
		for _, tc := range result.ToolCalls {
			refs = append(refs, convlog.ToolCallRef{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments, SystemKind: tc.SystemKind})
			if tc.Name == supervisor.ToolFinished {
				c.session.Finished = true
				if reason, ok := tc.Arguments["reason"].(string); ok {
					c.session.FinishedReason = reason
				}
			}
		}
		c.session.Log = append(c.session.Log, convlog.AssistantToolCalls(refs))
	}
	for _, tr := range result.ToolResponses {
		c.session.Log = append(c.session.Log, convlog.ToolResponse(tr.ToolCallID, tr.Content))
	}
	c.session.Log = append(c.session.Log, convlog.AssistantText(result.AssistantText))
	return nil
}

// rebuildContext implements §4.6 step 6: if this iteration invoked the
// Summariser, the Context is the summary plus this iteration's
// newly-appended lines; otherwise it is rebuilt wholesale from the
// Conversation Log (§3's rendering rule).
func (c *Controller) rebuildContext(summarised bool, logLenBeforeTurn int) {
	if !summarised {
		c.session.Context = convlog.Render(c.session.Log)
		return
	}
	c.session.Context += convlog.Render(c.session.Log[logLenBeforeTurn:])
}
