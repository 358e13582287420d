package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFtHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "flights loaded",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tflights loaded\n",
		},
		{
			name:    "warn level",
			opID:    "op-456",
			level:   slog.LevelWarn,
			message: "retrying request",
			want:    "2024-06-15T14:30:45Z\tWARN\top-456\tretrying request\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "flight added",
			attrs:   []slog.Attr{slog.String("flight_number", "AA100"), slog.Int("count", 3)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\tflight added\tflight_number=AA100\tcount=3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ftHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestFtHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &ftHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "api")}).(*ftHandler)
	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "request", 0)
	r.AddAttrs(slog.String("path", "/flights"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{"a=1", "component=api", "path=/flights"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %s", got, want)
		}
	}
}

func TestFtHandler_Enabled(t *testing.T) {
	h := &ftHandler{level: slog.LevelWarn}
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}

	if !(&ftHandler{}).Enabled(context.Background(), slog.LevelDebug) {
		t.Error("handler without a level should accept everything")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name       string
		verbose    bool
		wantStderr []string
		skipStderr []string
	}{
		{
			name:       "stderr gets warnings only",
			wantStderr: []string{"backend slow"},
			skipStderr: []string{"flights loaded"},
		},
		{
			name:       "verbose mirrors the file",
			verbose:    true,
			wantStderr: []string{"backend slow", "flights loaded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			var stderr bytes.Buffer

			logger, f, err := newLogger(dir, "op-1", slog.LevelInfo, tt.verbose, &stderr)
			if err != nil {
				t.Fatalf("newLogger() error = %v", err)
			}
			logger.Debug("request details")
			logger.Info("flights loaded")
			logger.Warn("backend slow")
			f.Close()

			data, err := os.ReadFile(filepath.Join(dir, LogFile))
			if err != nil {
				t.Fatal(err)
			}
			file := string(data)
			if strings.Contains(file, "request details") {
				t.Error("log file contains a record below the configured level")
			}
			for _, want := range []string{"flights loaded", "backend slow"} {
				if !strings.Contains(file, want) {
					t.Errorf("log file missing %q", want)
				}
			}

			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr missing %q: %q", want, stderr.String())
				}
			}
			for _, skip := range tt.skipStderr {
				if strings.Contains(stderr.String(), skip) {
					t.Errorf("stderr unexpectedly contains %q", skip)
				}
			}
		})
	}
}
