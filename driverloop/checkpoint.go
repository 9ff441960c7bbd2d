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
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type sessionInfo struct {
	SessionStart     int64 `json:"session_start"`
	CurrentIteration int   `json:"current_iteration"`
	ElapsedSeconds   int   `json:"elapsed_seconds"`
	LastUpdated      int64 `json:"last_updated"`
}

type heartbeat struct {
	Timestamp        string `json:"timestamp"`
	Iteration        int    `json:"iteration"`
	SessionTimestamp int64  `json:"session_timestamp"`
	ElapsedSeconds   int    `json:"elapsed_seconds"`
	Status           string `json:"status"`
	PID              int    `json:"pid"`
	ConfigFile       string `json:"config_file"`
	DurationMinutes  int    `json:"duration_minutes"`
	DriverModel      string `json:"driver_model"`
	FullAuto         bool   `json:"full_auto"`
}

// writeCheckpoint implements §4.6 step 7/9 and the §6 Persisted Files
// list: iteration_{NNN}.json, latest.json, session_info.json,
// heartbeat.json to every session mirror, plus
// latest_session_heartbeat.json at the two fixed global paths, plus
// context_log.txt. A write failure is CheckpointWrite (§7): logged to
// stderr, never fatal.
func (s *Session) writeCheckpoint(status string) error {
	logJSON, err := json.MarshalIndent(s.Log, "", "  ")
	if err != nil {
		return fmt.Errorf("driverloop: failed to marshal conversation log: %w", err)
	}

	info := sessionInfo{
		SessionStart:     s.SessionTimestamp,
		CurrentIteration: s.IterationIndex,
		ElapsedSeconds:   s.elapsedSeconds(),
		LastUpdated:      time.Now().Unix(),
	}
	infoJSON, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("driverloop: failed to marshal session info: %w", err)
	}

	hb := heartbeat{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Iteration:        s.IterationIndex,
		SessionTimestamp: s.SessionTimestamp,
		ElapsedSeconds:   s.elapsedSeconds(),
		Status:           status,
		PID:              os.Getpid(),
		ConfigFile:       s.ConfigFile,
		DurationMinutes:  s.DurationMinutes,
		DriverModel:      s.DriverModel,
		FullAuto:         s.FullAuto,
	}
	hbJSON, err := json.MarshalIndent(hb, "", "  ")
	if err != nil {
		return fmt.Errorf("driverloop: failed to marshal heartbeat: %w", err)
	}

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, dir := range s.logDirs {
		iterFile := filepath.Join(dir, fmt.Sprintf("iteration_%03d.json", s.IterationIndex))
		record(os.WriteFile(iterFile, logJSON, 0o644))
		record(os.WriteFile(filepath.Join(dir, "latest.json"), logJSON, 0o644))
		record(os.WriteFile(filepath.Join(dir, "session_info.json"), infoJSON, 0o644))
		record(os.WriteFile(filepath.Join(dir, "heartbeat.json"), hbJSON, 0o644))
		record(os.WriteFile(filepath.Join(dir, "context_log.txt"), []byte(s.Context), 0o644))
	}
	for _, path := range s.globalHeartbeatPaths {
		record(os.MkdirAll(filepath.Dir(path), 0o755))
		record(os.WriteFile(path, hbJSON, 0o644))
	}

	return firstErr
}

// logCheckpointFailure implements the CheckpointWrite error kind of §7:
// logged to stderr, the loop continues, the log stays in memory.
func logCheckpointFailure(err error) {
	slog.Error("checkpoint write failed", "error", err)
}
