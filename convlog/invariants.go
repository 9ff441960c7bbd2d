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

package convlog

import "fmt"

// Validate checks the invariants of §3/§8: exactly one leading system
// record, and every tool record's ToolCallID resolves to some preceding
// assistant.tool_calls or user.tool_calls entry. It is intended for tests
// and defensive checks around checkpoint load, not for the hot path.
func Validate(log []Record) error {
	if len(log) == 0 {
		return fmt.Errorf("convlog: empty log")
	}
	if log[0].Role != RoleSystem {
		return fmt.Errorf("convlog: first record must be system, got %s", log[0].Role)
	}
	seen := map[string]bool{}
	for i, rec := range log {
		if i > 0 && rec.Role == RoleSystem {
			return fmt.Errorf("convlog: system record repeated at index %d", i)
		}
		for _, c := range rec.ToolCalls {
			seen[c.ID] = true
		}
		if rec.Role == RoleTool {
			if rec.ToolCallID == "" {
				return fmt.Errorf("convlog: tool record at index %d missing tool_call_id", i)
			}
			if !seen[rec.ToolCallID] {
				return fmt.Errorf("convlog: tool record at index %d references unknown tool_call_id %q", i, rec.ToolCallID)
			}
		}
	}
	return nil
}
