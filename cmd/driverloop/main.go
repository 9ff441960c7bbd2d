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

// Command driverloop runs the autonomous Driver/Agent control loop
// described by SPEC_FULL.md, modelled as the teacher's single-command
// CLI entry point (cmd/hector) but trimmed to the one "autonomous"
// operation this module implements.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/kadirpekel/hector-driverloop/agentrt"
	"github.com/kadirpekel/hector-driverloop/driverclient"
	"github.com/kadirpekel/hector-driverloop/driverloop"
	"github.com/kadirpekel/hector-driverloop/internal/config"
	"github.com/kadirpekel/hector-driverloop/internal/logx"
	"github.com/kadirpekel/hector-driverloop/internal/observability"
	"github.com/kadirpekel/hector-driverloop/internal/statusserver"
	"github.com/kadirpekel/hector-driverloop/prompt"
	"github.com/kadirpekel/hector-driverloop/tokenizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// cli is the §6 CLI surface: a single autonomous-mode command.
type cli struct {
	ConfigFile       string `help:"Path to the task YAML file." short:"f" required:"" name:"config-file"`
	Duration         int    `help:"Advisory wall-clock budget in minutes." short:"d" default:"30" name:"duration"`
	DriverModel      string `help:"Driver model identifier." short:"m" default:"o3" name:"driver-model"`
	FullAuto         bool   `help:"Configure the Agent runtime for on-failure approvals and workspace-write sandbox." name:"full-auto"`
	ResumeDir        string `help:"Resume an existing session from this directory." name:"resume-dir"`
	WorkStartHour    int    `help:"Reserved for future use; not consulted by the loop." default:"0" name:"work-start-hour"`
	WorkEndHour      int    `help:"Reserved for future use; not consulted by the loop." default:"23" name:"work-end-hour"`
	IgnoreWorkHours  bool   `help:"Reserved for future use; not consulted by the loop." name:"ignore-work-hours"`
	LogsDir          string `help:"Custom session logs directory." name:"logs-dir"`
	Mode             string `help:"Specialist tag forwarded to the Agent runtime." name:"mode"`

	TemplatesDir     string `help:"Directory holding the five prompt templates." default:"templates" name:"templates-dir"`
	SystemPromptFile string `help:"Path to the static system prompt." default:"system_prompt.txt" name:"system-prompt-file"`
	EnvFile          string `help:"Path to a .env file with driver credentials." default:".env" name:"env-file"`
	StatusAddr       string `help:"Address for the read-only status server, empty to disable." name:"status-addr"`
	MetricsAddr      string `help:"Address to serve Prometheus /metrics on, empty to disable." name:"metrics-addr"`
	TraceEnabled     bool   `help:"Emit one OTel span per iteration and per Iteration Controller Driver Client call to stdout." name:"trace"`
}

func main() {
	var c cli
	kong.Parse(&c, kong.Description("Run the autonomous Driver/Agent control loop."))

	logx.Setup(logx.Options{Level: levelFromEnv()})

	if err := run(context.Background(), c); err != nil {
		slog.Error("autonomous session failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c cli) error {
	for _, h := range []int{c.WorkStartHour, c.WorkEndHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("work hours must be in 0..23, got %d", h)
		}
	}
	if err := config.LoadEnv(c.EnvFile); err != nil {
		return err
	}

	task, err := config.LoadTask(c.ConfigFile)
	if err != nil {
		return err
	}
	systemPrompt, err := config.LoadSystemPrompt(c.SystemPromptFile)
	if err != nil {
		return err
	}
	templates, err := prompt.Load(c.TemplatesDir)
	if err != nil {
		return err
	}
	counter, err := tokenizer.Shared()
	if err != nil {
		return fmt.Errorf("tokenizer initialisation failed: %w", err)
	}

	session, err := driverloop.Bootstrap(driverloop.BootstrapOptions{
		ConfigContent:   task.Raw,
		ConfigFile:      c.ConfigFile,
		DriverModel:     c.DriverModel,
		DurationMinutes: c.Duration,
		FullAuto:        c.FullAuto,
		Mode:            c.Mode,
		LogsDir:         c.LogsDir,
		ResumeDir:       c.ResumeDir,
		SystemPrompt:    systemPrompt,
	})
	if err != nil {
		return err
	}

	driver := driverclient.New("DRIVER_API_KEY")
	handle, err := newAgentHandle(ctx, c)
	if err != nil {
		return err
	}

	var opts []driverloop.Option
	if c.MetricsAddr != "" || c.TraceEnabled {
		tracer, metrics, err := setupObservability(ctx, c)
		if err != nil {
			return fmt.Errorf("observability setup failed: %w", err)
		}
		opts = append(opts, driverloop.WithObservability(tracer, metrics))
	}

	ctrl := driverloop.New(session, driver, templates, counter, handle, opts...)

	if c.StatusAddr != "" {
		startStatusServer(c.StatusAddr, filepath.Join(session.SessionLogsDir(), "heartbeat.json"))
	}

	return ctrl.Run(ctx)
}

// setupObservability wires the OTel tracer (stdout exporter) and the
// Prometheus-bridged counters, serving /metrics on MetricsAddr when set.
func setupObservability(ctx context.Context, c cli) (trace.Tracer, *observability.Metrics, error) {
	var tracer trace.Tracer = noop.NewTracerProvider().Tracer("noop")
	if c.TraceEnabled {
		t, _, err := observability.NewTracer(ctx)
		if err != nil {
			return nil, nil, err
		}
		tracer = t
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}
	if c.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(c.MetricsAddr, mux); err != nil {
				slog.Error("metrics server exited", "error", err)
			}
		}()
	}
	return tracer, metrics, nil
}

// newAgentHandle is where a real Agent runtime transport would be
// constructed; it is out of scope for this module (§1) so this module
// never ships one. A caller embedding driverloop as a library supplies
// its own agentrt.Handle implementation here.
func newAgentHandle(ctx context.Context, c cli) (agentrt.Handle, error) {
	return nil, fmt.Errorf("no agentrt.Handle wired: this binary is a template for an embedding caller to supply one")
}

func startStatusServer(addr, heartbeatPath string) {
	srv := statusserver.New(statusserver.FileHeartbeatReader(heartbeatPath))
	go func() {
		if err := http.ListenAndServe(addr, srv); err != nil {
			slog.Error("status server exited", "error", err)
		}
	}()
}

func levelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
