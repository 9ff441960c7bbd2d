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

// Package statusserver exposes the current heartbeat over two read-only
// HTTP endpoints, GET /healthz and GET /status, via go-chi/chi/v5. It
// never mutates session state — a separate observer process or an
// operator's browser can poll it without touching the single-writer
// session directories.
package statusserver

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// HeartbeatReader returns the current contents of the heartbeat file, or
// ("", false) if it cannot be read yet (e.g. before the first
// checkpoint).
type HeartbeatReader func() (json string, ok bool)

// New builds a chi router serving /healthz (plain 200 liveness check)
// and /status (the latest heartbeat JSON verbatim).
func New(heartbeat HeartbeatReader) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		body, ok := heartbeat()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"no heartbeat written yet"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})

	return r
}

// FileHeartbeatReader reads path fresh on every call, matching the
// heartbeat file's "overwritten on each turn" semantics (§5).
func FileHeartbeatReader(path string) HeartbeatReader {
	return func() (string, bool) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}
