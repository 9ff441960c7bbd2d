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

// Package fake is a deterministic in-memory double for agentrt.Handle,
// used by driverloop and eventdemux tests in place of a real sandboxed
// Agent runtime, the same role the teacher's test LLM providers play in
// its reasoning and llms test suites.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/kadirpekel/hector-driverloop/agentrt"
)

// Script is a scripted reaction to one Submit call: the events that
// should be emitted in order, ending the stream once all are consumed.
type Script struct {
	// Events are replayed verbatim in NextEvent order.
	Events []agentrt.Event
}

// Handle is a scripted agentrt.Handle. Each Submit call consumes the
// next unused Script in order; its Events are then what NextEvent
// returns until exhausted. Submit assigns submission ids "sub-1",
// "sub-2", ... deterministically.
type Handle struct {
	mu       sync.Mutex
	scripts  []Script
	next     int
	queue    []agentrt.Event
	subCount int

	// Submitted records every Op passed to Submit, for assertions.
	Submitted []agentrt.Op
}

// New builds a fake Handle that replays scripts in order, one per
// Submit call.
func New(scripts ...Script) *Handle {
	return &Handle{scripts: scripts}
}

func (h *Handle) Submit(ctx context.Context, op agentrt.Op) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subCount++
	subID := fmt.Sprintf("sub-%d", h.subCount)
	h.Submitted = append(h.Submitted, op)

	if h.next >= len(h.scripts) {
		return subID, fmt.Errorf("fake: no script left for submission %s", subID)
	}
	script := h.scripts[h.next]
	h.next++

	h.queue = nil
	for _, ev := range script.Events {
		ev.SubmissionID = subID
		h.queue = append(h.queue, ev)
	}
	return subID, nil
}

func (h *Handle) NextEvent(ctx context.Context) (agentrt.Event, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.queue) == 0 {
		return agentrt.Event{}, false, nil
	}
	ev := h.queue[0]
	h.queue = h.queue[1:]
	return ev, true, nil
}
