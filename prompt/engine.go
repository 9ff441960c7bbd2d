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

// Package prompt is the Template Engine of §4.3: five named templates
// read from disk at startup, bound to runtime variables by literal,
// non-recursive, all-occurrences substitution. No escaping, no control
// flow — the templates are static text with placeholders.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Name identifies one of the five fixed templates.
type Name string

const (
	Initial           Name = "initial"
	Continuation      Name = "continuation"
	Approval          Name = "approval"
	BugcrowdApproval  Name = "bugcrowd_approval"
	Summarization     Name = "summarization"
)

var allNames = []Name{Initial, Continuation, Approval, BugcrowdApproval, Summarization}

// Engine holds the five templates loaded from a directory at startup.
type Engine struct {
	templates map[Name]string
}

// Load reads the five template files from dir, named "<name>.tmpl".
// Absence of any one is fatal per §4.3.
func Load(dir string) (*Engine, error) {
	templates := make(map[Name]string, len(allNames))
	for _, name := range allNames {
		path := filepath.Join(dir, string(name)+".tmpl")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("prompt: required template %q missing: %w", name, err)
		}
		templates[name] = string(data)
	}
	return &Engine{templates: templates}, nil
}

// Vars is the fixed variable set substituted into templates. A caller
// only populates the fields its template actually references; zero
// values substitute as the empty string.
type Vars struct {
	ConfigYAML  string
	Context     string
	Command     string
	Cwd         string
	Reason      string
	TaskContext string
	Changes     string
	Tool        string
	Arguments   string
}

// Render substitutes Vars into the named template literally,
// non-recursively, for every occurrence, with no escaping (§4.3).
func (e *Engine) Render(name Name, vars Vars) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", fmt.Errorf("prompt: unknown template %q", name)
	}
	replacer := strings.NewReplacer(
		"{config_yaml}", vars.ConfigYAML,
		"{context}", vars.Context,
		"{command}", vars.Command,
		"{cwd}", vars.Cwd,
		"{reason}", vars.Reason,
		"{task_context}", vars.TaskContext,
		"{changes}", vars.Changes,
		"{tool}", vars.Tool,
		"{arguments}", vars.Arguments,
	)
	return replacer.Replace(tmpl), nil
}
