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

package agentrt

import "context"

// ReviewDecision is the outcome of an approval gate, submitted back to
// the Agent runtime to unblock an exec_approval_request or
// apply_patch_approval_request.
type ReviewDecision string

const (
	Approved ReviewDecision = "approved"
	Denied   ReviewDecision = "denied"
)

// OpKind enumerates what a Submit call is delivering to the Agent runtime.
type OpKind string

const (
	OpUserInput      OpKind = "user_input"
	OpExecApproval   OpKind = "exec_approval"
	OpPatchApproval  OpKind = "patch_approval"
)

// Op is a submission the Iteration Controller or Event Demultiplexer
// sends into the Agent runtime conversation.
type Op struct {
	Kind OpKind

	// OpUserInput
	Text string

	// OpExecApproval / OpPatchApproval
	CallID   string
	Decision ReviewDecision
}

// Handle is the Agent runtime boundary. Implementations do not expose
// any other surface: everything the Event Demultiplexer needs flows
// through NextEvent and Submit, per §4.5's message-passing model.
type Handle interface {
	// NextEvent blocks until the next Agent event is available, the
	// stream for the current submission has ended (ok=false), or ctx is
	// cancelled.
	NextEvent(ctx context.Context) (event Event, ok bool, err error)

	// Submit sends an Op to the Agent runtime and returns the
	// submission id the resulting event stream will be tagged with.
	Submit(ctx context.Context, op Op) (submissionID string, err error)
}
