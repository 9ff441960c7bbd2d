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
	"fmt"

	"github.com/kadirpekel/hector-driverloop/driverclient"
)

type finishedArgs struct {
	Reason string `mapstructure:"reason"`
}

// FinishedSchema is the JSON Schema offered for finished.
type FinishedSchema struct {
	Reason string `json:"reason" jsonschema:"required,description=Why the autonomous session is complete"`
}

func (r *Registry) finished(call driverclient.ToolCall) Result {
	var args finishedArgs
	if err := decodeArgs(call.Arguments, &args); err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolFinished, Content: fmt.Sprintf("finished failed: %v", err)}
	}
	if r.onFinish != nil {
		r.onFinish(args.Reason)
	}
	return Result{ToolCallID: call.ID, ToolName: ToolFinished, Content: "Autonomous session finished: " + args.Reason}
}
