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

// Package config loads the task YAML, the static system prompt, and the
// .env file that carries driver provider credentials and
// SLACK_WEBHOOK_URL, adapting the teacher's config package to this
// module's narrower needs.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Task is the loaded task configuration: its YAML text is kept opaque
// to the rest of the loop (§3's config_content) but is syntax-validated
// at load time so a malformed file fails fast as FatalConfig rather
// than surfacing mid-session.
type Task struct {
	// Raw is the verbatim YAML text, passed through to the Template
	// Engine as {config_yaml} unmodified.
	Raw string
}

// LoadTask reads and syntax-validates the task YAML at path. The parsed
// structure is discarded — only syntax is checked, per SPEC_FULL.md's
// "syntax-validated but kept opaque" decision — so unknown or
// task-specific fields never need a schema here.
func LoadTask(path string) (Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Task{}, fmt.Errorf("config: failed to read task file %s: %w", path, err)
	}
	var probe any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Task{}, fmt.Errorf("config: task file %s is not valid YAML: %w", path, err)
	}
	return Task{Raw: string(data)}, nil
}

// LoadSystemPrompt reads the static system prompt file, fatal if
// missing (§4.6 step 1).
func LoadSystemPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: failed to read system prompt %s: %w", path, err)
	}
	return string(data), nil
}

// LoadEnv loads driver credentials and SLACK_WEBHOOK_URL from a .env
// file via godotenv. A missing .env is not an error: the environment
// may already carry these variables (e.g. in CI or a container).
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: failed to load %s: %w", path, err)
	}
	return nil
}
