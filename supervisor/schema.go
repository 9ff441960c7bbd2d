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
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/kadirpekel/hector-driverloop/driverclient"
)

var toolDescriptions = map[string]string{
	ToolWriteNote:    "Append a timestamped note under the session's notes directory.",
	ToolReadNotes:    "Return the concatenation of all notes written so far, sorted by filename.",
	ToolSlackWebhook: "Report a finding to the team's Slack channel via webhook.",
	ToolFinished:     "Signal that the autonomous session has completed its task.",
}

// OfferedTools builds the fixed offered_tools set of §4.4/§6: JSON
// Schemas for write_note, read_notes, slack_webhook, and finished,
// generated with invopop/jsonschema from the exported *Schema structs.
// Each tool decodes its arguments with mapstructure into a separate
// unexported args struct, so the two are kept in step by hand.
func OfferedTools() []driverclient.ToolDef {
	return []driverclient.ToolDef{
		toolDef(ToolWriteNote, WriteNoteSchema{}),
		toolDef(ToolReadNotes, ReadNotesSchema{}),
		toolDef(ToolSlackWebhook, SlackWebhookSchema{}),
		toolDef(ToolFinished, FinishedSchema{}),
	}
}

func toolDef(name string, v any) driverclient.ToolDef {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		DoNotReference:             true,
		AllowAdditionalProperties:  false,
	}
	schema := r.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("supervisor: failed to marshal schema for %s: %v", name, err))
	}
	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		panic(fmt.Sprintf("supervisor: failed to decode schema for %s: %v", name, err))
	}
	delete(params, "$schema")

	return driverclient.ToolDef{
		Name:        name,
		Description: toolDescriptions[name],
		Parameters:  params,
	}
}
