package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitWritesFileAndConsole(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	if err := Init(Options{Dir: dir, Level: "debug", Console: &console}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Init(Options{Console: &bytes.Buffer{}}) })

	id := NewRenderID()
	RenderLogger(id).Info("laid out", zap.Float64("zero", 37.5))
	LogSuccess("Rendered numbers.png", zap.Int64("duration_ms", 12))
	LogError("Upload failed", zap.Error(errors.New("boom")))
	LogDebug("debug only")
	if err := Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	out := console.String()
	for _, want := range []string{"SUCCESS", "✓ Rendered numbers.png (12ms)", "ERROR", "✗ Upload failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Fatalf("console output is coloured although it is not a terminal:\n%s", out)
	}
	if strings.Contains(out, "debug only") {
		t.Fatalf("debug line reached the console")
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	log := string(data)
	for _, want := range []string{
		`"render_id":"` + id + `"`,
		`"zero":37.5`,
		`"error":"boom"`,
		"DEBUG debug only",
	} {
		if !strings.Contains(log, want) {
			t.Fatalf("file log missing %q:\n%s", want, log)
		}
	}
}

func TestInitRejectsLevel(t *testing.T) {
	if err := Init(Options{Level: "loud"}); err == nil {
		t.Fatalf("Init(loud) succeeded")
	}
}

func TestLogResponse(t *testing.T) {
	var console bytes.Buffer
	if err := Init(Options{Console: &console}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	LogResponse("abc", 200, 5)
	if console.Len() != 0 {
		t.Fatalf("successful response reached the console: %q", console.String())
	}
	LogResponse("abc", 429, 5, zap.String("target", "sendPhoto"))
	if !strings.Contains(console.String(), "✗ API request failed [429] sendPhoto") {
		t.Fatalf("console = %q", console.String())
	}
}

func TestIDs(t *testing.T) {
	if a, b := NewRenderID(), NewRenderID(); a == b || len(a) != 36 {
		t.Fatalf("NewRenderID() = %q, %q", a, b)
	}
	if id := GenerateRequestID(); len(id) != 16 {
		t.Fatalf("GenerateRequestID() = %q", id)
	}
}
