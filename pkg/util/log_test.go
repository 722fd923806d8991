package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "info", false},
		{"debug", "debug", false},
		{"WARN", "warn", false},
		{"error", "error", false},
		{"loud", "", true},
	}
	for _, tt := range tests {
		lvl, err := ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || lvl.String() != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %s", tt.in, lvl, err, tt.want)
		}
	}
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gate.log")

	log, err := NewLoggerWithFile(path, zap.WarnLevel)
	if err != nil {
		t.Fatalf("NewLoggerWithFile: %v", err)
	}
	log.Info("dropped")
	log.Warn("kept", zap.String("k", "v"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "dropped") {
		t.Error("info entry written at warn level")
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"ts":`) {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Now = %v, want %v", c.Now(), start)
	}
	c.Advance(time.Second)
	if !c.Now().Equal(start.Add(time.Second)) {
		t.Errorf("Advance did not move clock")
	}
}
