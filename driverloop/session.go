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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/kadirpekel/hector-driverloop/convlog"
)

const globalHeartbeatFilename = "latest_session_heartbeat.json"

// Session is the §3 Session record plus the mutable state the
// Iteration Controller owns for the lifetime of one process invocation.
type Session struct {
	SessionTimestamp int64
	ConfigContent    string
	ConfigFile       string
	DriverModel      string
	DurationMinutes  int
	FullAuto         bool
	Mode             string

	// logDirs holds every mirror a durable write targets. The default
	// path keeps exactly two (session, backup) per §9's "must not drop
	// either on the default path"; the slice shape lets an operator add
	// further mirrors without changing the write call sites.
	logDirs []string

	// globalHeartbeatPaths are the two fixed locations
	// latest_session_heartbeat.json is written to, independent of any
	// one session's directories.
	globalHeartbeatPaths []string

	Context string
	Log     []convlog.Record

	IterationIndex int
	Finished       bool
	FinishedReason string

	startedAt time.Time
}

var iterationFileRE = regexp.MustCompile(`^iteration_(\d+)\.json$`)

// BootstrapOptions carries everything Bootstrap needs beyond the fixed
// defaults (§4.6 step 1/2).
type BootstrapOptions struct {
	ConfigContent   string
	ConfigFile      string
	DriverModel     string
	DurationMinutes int
	FullAuto        bool
	Mode            string
	LogsDir         string // explicit custom logs dir, "" if none
	ResumeDir       string // explicit resume dir, "" if none
	SystemPrompt    string
}

// Bootstrap implements §4.6 step 1 (and step 2 when ResumeDir is set).
func Bootstrap(opts BootstrapOptions) (*Session, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fatalConfig("failed to resolve home directory: %w", err)
	}

	ts := time.Now().Unix()
	var sessionDir string
	resuming := opts.ResumeDir != ""

	switch {
	case resuming:
		sessionDir = opts.ResumeDir
	case opts.LogsDir != "":
		sessionDir = opts.LogsDir
	default:
		sessionDir = filepath.Join("logs", fmt.Sprintf("autonomous_session_%d", ts))
	}
	backupDir := filepath.Join(home, "codex-logs-backup", fmt.Sprintf("autonomous_session_%d", ts))

	for _, dir := range []string{sessionDir, backupDir, filepath.Join(sessionDir, "notes")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fatalConfig("failed to create session directory %s: %w", dir, err)
		}
	}

	s := &Session{
		SessionTimestamp: ts,
		ConfigContent:    opts.ConfigContent,
		ConfigFile:       opts.ConfigFile,
		DriverModel:      opts.DriverModel,
		DurationMinutes:  opts.DurationMinutes,
		FullAuto:         opts.FullAuto,
		Mode:             opts.Mode,
		logDirs:          []string{sessionDir, backupDir},
		globalHeartbeatPaths: []string{
			filepath.Join("logs", globalHeartbeatFilename),
			filepath.Join(home, "codex-logs-backup", globalHeartbeatFilename),
		},
		startedAt: time.Now(),
	}

	if resuming {
		if err := s.resume(opts.ResumeDir); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.Log = append(s.Log, convlog.System(opts.SystemPrompt))
	s.Context = convlog.Render(s.Log)

	if err := s.writeCheckpoint("running"); err != nil {
		logCheckpointFailure(err)
	}
	return s, nil
}

// resume implements §4.6 step 2.
func (s *Session) resume(dir string) error {
	contextBytes, err := os.ReadFile(filepath.Join(dir, "context_log.txt"))
	if err != nil {
		return fatalConfig("failed to read context_log.txt for resume: %w", err)
	}
	s.Context = string(contextBytes)

	latestBytes, err := os.ReadFile(filepath.Join(dir, "latest.json"))
	if err != nil {
		return fatalConfig("failed to read latest.json for resume: %w", err)
	}
	var log []convlog.Record
	if err := json.Unmarshal(latestBytes, &log); err != nil {
		return fatalConfig("failed to parse latest.json for resume: %w", err)
	}
	s.Log = log

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fatalConfig("failed to list resume directory: %w", err)
	}
	maxN := 0
	for _, e := range entries {
		m := iterationFileRE.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxN {
			maxN = n
		}
	}
	s.IterationIndex = maxN
	return nil
}

// SessionLogsDir returns the primary (non-backup) session directory.
func (s *Session) SessionLogsDir() string { return s.logDirs[0] }

func (s *Session) elapsedSeconds() int {
	return int(time.Since(s.startedAt).Seconds())
}
