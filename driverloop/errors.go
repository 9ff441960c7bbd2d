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

// Package driverloop is the Iteration Controller of §4.6: the outer
// state machine that sequences Driver turn → Agent turn → bookkeeping →
// checkpoint, owning the Context, the Conversation Log, session
// metadata, and termination.
package driverloop

import "fmt"

// Kind classifies an Error into the §7 taxonomy. Only FatalConfig,
// DriverTransport, and AgentStream ever terminate the loop;
// ApprovalAmbiguity is resolved internally (never constructed here) and
// ToolFailure/CheckpointWrite are recovered locally (logged, not
// returned as fatal Errors).
type Kind string

const (
	KindFatalConfig    Kind = "fatal_config"
	KindDriverTransport Kind = "driver_transport"
	KindAgentStream    Kind = "agent_stream"
)

// Error is the Iteration Controller's fatal error type. Every Error
// terminates the loop: a final checkpoint is written with status
// "error" before the process exits.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("driverloop: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fatalConfig(format string, args ...any) *Error {
	return &Error{Kind: KindFatalConfig, Err: fmt.Errorf(format, args...)}
}

func driverTransport(err error) *Error {
	return &Error{Kind: KindDriverTransport, Err: err}
}

func agentStream(err error) *Error {
	return &Error{Kind: KindAgentStream, Err: err}
}
