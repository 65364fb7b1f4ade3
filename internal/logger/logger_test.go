package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

func TestFileWriter_Defaults(t *testing.T) {
	if w := (FileConfig{}).Writer(); w != nil {
		t.Fatalf("expected nil writer without path")
	}
	w := FileConfig{Path: "x.log"}.Writer()
	l, ok := w.(*lj.Logger)
	if !ok {
		t.Fatalf("expected *lumberjack.Logger, got %T", w)
	}
	if l.MaxSize != DefaultMaxSizeMB || l.MaxBackups != DefaultMaxBackups || l.MaxAge != DefaultMaxAgeDays {
		t.Fatalf("unexpected defaults: %+v", l)
	}
	if l.Compress {
		t.Fatalf("compress should default to false")
	}
}

func TestFileWriter_Overrides(t *testing.T) {
	w := FileConfig{Path: "x.log", MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 3, Compress: true}.Writer()
	l := w.(*lj.Logger)
	if l.MaxSize != 1 || l.MaxBackups != 2 || l.MaxAge != 3 || !l.Compress {
		t.Fatalf("overrides not applied: %+v", l)
	}
}

func TestNewSlogger_ConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svcwatch.log")
	cfg := Config{
		Slog: SlogConfig{Level: LevelInfo, Format: FormatText, Color: true},
		File: FileConfig{Path: path},
	}
	var console bytes.Buffer
	log, closer := cfg.NewSlogger(&console)
	log.With(slog.String("service", "Spooler")).Warn("service is stopped")
	log.Debug("hidden")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out := console.String()
	// TextHandler quotes the message, so the escape byte shows up as \x1b.
	if !strings.Contains(out, `[33mWARN`) || !strings.Contains(out, "service=Spooler") {
		t.Fatalf("console output missing color or attrs: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered: %q", out)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if strings.Contains(string(b), "[33m") {
		t.Fatalf("file output must not contain color codes: %q", b)
	}
	if !strings.Contains(string(b), "service=Spooler") {
		t.Fatalf("file output missing attrs: %q", b)
	}
}

func TestNewSlogger_JSONWithoutTime(t *testing.T) {
	var buf bytes.Buffer
	log, _ := Config{Slog: SlogConfig{Level: LevelDebug, Format: FormatJSON}}.NewSlogger(&buf)
	log.Info("hello")
	out := buf.String()
	if !strings.HasPrefix(out, "{") || strings.Contains(out, `"time"`) {
		t.Fatalf("unexpected json output: %q", out)
	}
}

func TestNewSlogger_NoOutputs(t *testing.T) {
	log, closer := Config{}.NewSlogger(nil)
	log.Error("dropped")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("inf"); err == nil || !strings.Contains(err.Error(), `"inf"`) {
		t.Fatalf("expected error for mistyped level, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
