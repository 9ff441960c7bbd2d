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
	"os"
	"path/filepath"
	"time"

	"github.com/kadirpekel/hector-driverloop/driverclient"
)

type writeNoteArgs struct {
	Text string `mapstructure:"text"`
}

// WriteNoteSchema is the JSON Schema offered to the Driver Client for
// write_note.
type WriteNoteSchema struct {
	Text string `json:"text" jsonschema:"required,description=Note body to append"`
}

func (r *Registry) writeNote(call driverclient.ToolCall) Result {
	var args writeNoteArgs
	if err := decodeArgs(call.Arguments, &args); err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolWriteNote, Content: fmt.Sprintf("write_note failed: %v", err)}
	}

	if err := os.MkdirAll(r.notesDir, 0o755); err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolWriteNote, Content: fmt.Sprintf("write_note failed: %v", err)}
	}

	filename := fmt.Sprintf("note_%s.txt", time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(r.notesDir, filename)
	body := fmt.Sprintf("# %s UTC\n%s\n", time.Now().UTC().Format(time.RFC3339), args.Text)

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return Result{ToolCallID: call.ID, ToolName: ToolWriteNote, Content: fmt.Sprintf("write_note failed: %v", err)}
	}
	return Result{ToolCallID: call.ID, ToolName: ToolWriteNote, Content: "Note written successfully to " + filename}
}
