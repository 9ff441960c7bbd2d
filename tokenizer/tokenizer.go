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

// Package tokenizer provides a pure, deterministic text-to-token-count
// function backed by a fixed BPE vocabulary. It has no I/O beyond the
// one-time encoding load and never observes the conversation log directly.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the fixed vocabulary this package counts against. The
// driver models this loop targets (o3 and friends) tokenize close enough
// to o200k_base that a single shared encoding keeps counting deterministic
// across resumes regardless of which driver model a session used.
const encodingName = "o200k_base"

// Counter counts tokens against the fixed vocabulary.
type Counter struct {
	enc *tiktoken.Tiktoken
}

var (
	shared   *Counter
	sharedMu sync.Mutex
)

// New loads the fixed encoding. Loading failure is fatal to the caller
// (FatalConfig per the driver loop's error taxonomy) — there is no
// degraded mode for token counting.
func New() (*Counter, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: failed to load %s encoding: %w", encodingName, err)
	}
	return &Counter{enc: enc}, nil
}

// Shared returns a process-wide Counter, initializing it on first use.
// cmd/driverloop calls this once at startup and hands the Counter to the
// Iteration Controller, which uses it for the Summariser trigger and the
// driver-prompt budget check.
func Shared() (*Counter, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		return shared, nil
	}
	c, err := New()
	if err != nil {
		return nil, err
	}
	shared = c
	return shared, nil
}

// Count returns the non-negative number of tokens text would encode to.
// Count is pure and deterministic for a given Counter.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}
