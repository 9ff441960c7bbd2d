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
	"sort"
	"strings"

	"github.com/kadirpekel/hector-driverloop/driverclient"
)

// ReadNotesSchema is the JSON Schema offered for read_notes; it takes no
// arguments.
type ReadNotesSchema struct{}

func (r *Registry) readNotes(call driverclient.ToolCall) Result {
	entries, err := os.ReadDir(r.notesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{ToolCallID: call.ID, ToolName: ToolReadNotes, Content: "No notes yet."}
		}
		return Result{ToolCallID: call.ID, ToolName: ToolReadNotes, Content: fmt.Sprintf("read_notes failed: %v", err)}
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return Result{ToolCallID: call.ID, ToolName: ToolReadNotes, Content: "No notes yet."}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(r.notesDir, name))
		if err != nil {
			return Result{ToolCallID: call.ID, ToolName: ToolReadNotes, Content: fmt.Sprintf("read_notes failed: %v", err)}
		}
		b.Write(data)
	}
	return Result{ToolCallID: call.ID, ToolName: ToolReadNotes, Content: b.String()}
}
