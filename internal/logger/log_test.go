package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{" INFO ", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"trace", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divyield.log")
	l, err := NewLogger(WithLoggingLevel(InfoLevel), WithOutputPaths(path))
	if err != nil {
		t.Fatalf("NewLogger() unexpected error: %v", err)
	}
	l = l.Named("yield").WithFields(NewField("symbol", "SPY"))
	l.Debug("hidden")
	l.Info("fetched", NewField("points", 42))
	l.Warn("boom")
	_ = l.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(content)
	if strings.Contains(got, "hidden") {
		t.Errorf("debug entry logged at info level:\n%s", got)
	}
	for _, want := range []string{"INFO", "yield", "fetched", `"points": 42`, `"symbol": "SPY"`, "WARN", "boom"} {
		if !strings.Contains(got, want) {
			t.Errorf("log does not contain %q:\n%s", want, got)
		}
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Warn("nothing")
	if l.GetZap() == nil {
		t.Error("Nop().GetZap() = nil")
	}
}
