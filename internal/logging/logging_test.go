package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		level, format string
		wantErr       bool
	}{
		{"info", "text", false},
		{"", "", false},
		{"DEBUG", "JSON", false},
		{"verbose", "text", true},
		{"info", "xml", true},
	}
	for _, tt := range tests {
		err := Validate(tt.level, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q, %q) err = %v, wantErr %v", tt.level, tt.format, err, tt.wantErr)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("auth_event", "event", "login_success")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["msg"] != "auth_event" || rec["event"] != "login_success" {
		t.Errorf("record = %v", rec)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("slow_request", "path", "/activities")
	if !strings.Contains(buf.String(), "msg=slow_request") || strings.Contains(buf.String(), "hidden") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	if err := Setup(Options{Level: "chatty"}); err == nil {
		t.Error("Setup accepted an unknown level")
	}
}
