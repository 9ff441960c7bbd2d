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

// Package logx sets up the process-wide slog.Logger, adapted from the
// teacher's pkg/logger: a level-filtered handler writing plain text by
// default, or JSON when Options.JSON is set. There is no terminal
// detection and no colour.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Options configures Setup.
type Options struct {
	Level  slog.Level
	Writer io.Writer // defaults to os.Stderr
	JSON   bool       // emit JSON instead of the plain text format
}

// Setup installs a process-wide slog.Logger built from opts and returns
// it. It also calls slog.SetDefault so library code using the package
// funcs picks it up.
func Setup(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	} else {
		handler = &textHandler{w: w, level: opts.Level}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// textHandler is a minimal human-readable handler in the teacher's
// style: "TIME LEVEL message key=value ...". Level names are written as
// plain text, without colour codes.
type textHandler struct {
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.Format(time.TimeOnly)
	line := fmt.Sprintf("%s %-5s %s", ts, levelColor(r.Level), r.Message)

	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &textHandler{w: h.w, level: h.level, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *textHandler) WithGroup(_ string) slog.Handler {
	return h
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
