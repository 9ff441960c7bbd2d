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
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/kadirpekel/hector-driverloop/agentrt"
	"github.com/kadirpekel/hector-driverloop/driverclient"
	"github.com/kadirpekel/hector-driverloop/eventdemux"
	"github.com/kadirpekel/hector-driverloop/internal/observability"
	"github.com/kadirpekel/hector-driverloop/prompt"
	"github.com/kadirpekel/hector-driverloop/supervisor"
	"github.com/kadirpekel/hector-driverloop/tokenizer"
	"go.opentelemetry.io/otel/trace"
)

// MaxTokens and TokenBuffer are the fixed constants of §4.6 step 3.
const (
	MaxTokens   = 200_000
	TokenBuffer = 500
)

// pacingDelay is the fixed inter-iteration sleep of §4.6 step 8.
var pacingDelay = 10 * time.Second

// Controller wires every component the Iteration Controller coordinates:
// the Driver Client, Template Engine, Supervisor Tools, tokenizer, and
// the Event Demultiplexer over a bound Agent handle.
type Controller struct {
	session    *Session
	driver     *driverclient.Client
	templates  *prompt.Engine
	tools      *supervisor.Registry
	counter    *tokenizer.Counter
	demux      *eventdemux.Demuxer
	handle     agentrt.Handle

	metrics *observability.Metrics
	tracer  trace.Tracer
}

// Option configures optional Controller behaviour beyond its required
// collaborators.
type Option func(*Controller)

// WithObservability attaches the otel tracer and Prometheus-bridged
// metrics described in SPEC_FULL.md's domain stack section. Without
// this option the Controller runs with both as no-ops.
func WithObservability(tracer trace.Tracer, metrics *observability.Metrics) Option {
	return func(c *Controller) {
		c.tracer = tracer
		c.metrics = metrics
	}
}

// New builds a Controller. handle is the Agent runtime boundary for the
// lifetime of this session.
func New(session *Session, driver *driverclient.Client, templates *prompt.Engine, counter *tokenizer.Counter, handle agentrt.Handle, opts ...Option) *Controller {
	tools := supervisor.New(
		filepath.Join(session.SessionLogsDir(), "notes"),
		"SLACK_WEBHOOK_URL",
		func(reason string) {
			session.Finished = true
			session.FinishedReason = reason
		},
	)
	demux := eventdemux.New(handle, driver, templates, session.DriverModel, session.ConfigContent)
	c := &Controller{
		session:   session,
		driver:    driver,
		templates: templates,
		tools:     tools,
		counter:   counter,
		demux:     demux,
		handle:    handle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the Iteration Controller's outer loop (§4.6 steps 3-9)
// until the session's Finished flag is set (by the finished tool), a
// fatal error occurs, or ctx is cancelled. An Agent TaskComplete event
// ends only the current turn, not the loop. It always writes a final
// checkpoint before returning.
func (c *Controller) Run(ctx context.Context) error {
	var runErr error

	for !c.session.Finished {
		if err := c.turn(ctx); err != nil {
			runErr = err
			break
		}
		if c.session.Finished {
			break
		}
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		case <-time.After(pacingDelay):
		}
		if runErr != nil {
			break
		}
	}

	status := "completed"
	if runErr != nil {
		status = "error"
	}
	if err := c.session.writeCheckpoint(status); err != nil {
		logCheckpointFailure(err)
	}
	if runErr != nil {
		slog.Error("autonomous driver loop exiting", "status", status, "error", runErr)
	} else {
		slog.Info("autonomous driver loop exiting", "status", status, "iterations", c.session.IterationIndex)
	}
	return runErr
}
