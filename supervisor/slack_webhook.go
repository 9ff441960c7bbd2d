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

package supervisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kadirpekel/hector-driverloop/driverclient"
)

type slackWebhookArgs struct {
	Title       string `mapstructure:"title"`
	Asset       string `mapstructure:"asset"`
	VulnType    string `mapstructure:"vuln_type"`
	Severity    string `mapstructure:"severity"`
	Description string `mapstructure:"description"`
	ReproSteps  string `mapstructure:"repro_steps"`
	Impact      string `mapstructure:"impact"`
	Cleanup     string `mapstructure:"cleanup"`
}

// SlackWebhookSchema is the JSON Schema offered for slack_webhook,
// mirroring the payload §4.4 specifies.
type SlackWebhookSchema struct {
	Title       string `json:"title" jsonschema:"required"`
	Asset       string `json:"asset" jsonschema:"required"`
	VulnType    string `json:"vuln_type" jsonschema:"required"`
	Severity    string `json:"severity" jsonschema:"required"`
	Description string `json:"description" jsonschema:"required"`
	ReproSteps  string `json:"repro_steps" jsonschema:"required"`
	Impact      string `json:"impact" jsonschema:"required"`
	Cleanup     string `json:"cleanup" jsonschema:"required"`
}

// slackHTTPTimeout bounds the single webhook attempt; slack_webhook has
// no retry policy per §4.4.
const slackHTTPTimeout = 10 * time.Second

func (r *Registry) slackWebhook(ctx context.Context, call driverclient.ToolCall) Result {
	url := os.Getenv(r.webhookEnv)
	if url == "" {
		return Result{ToolCallID: call.ID, ToolName: ToolSlackWebhook, Content: fmt.Sprintf("%s not set, skipping Slack notification", r.webhookEnv)}
	}

	var args slackWebhookArgs
	if err := decodeArgs(call.Arguments, &args); err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolSlackWebhook, Content: fmt.Sprintf("slack_webhook failed: %v", err)}
	}

	payload, err := json.Marshal(args)
	if err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolSlackWebhook, Content: fmt.Sprintf("slack_webhook failed: %v", err)}
	}

	reqCtx, cancel := context.WithTimeout(ctx, slackHTTPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolSlackWebhook, Content: fmt.Sprintf("slack_webhook failed: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolSlackWebhook, Content: fmt.Sprintf("slack_webhook failed: %v", err)}
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolSlackWebhook, Content: fmt.Sprintf("slack_webhook failed: %v", err)}
	}
	return Result{ToolCallID: call.ID, ToolName: ToolSlackWebhook, Content: string(out)}
}
