package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNew_WritesJSONFile(t *testing.T) {
	root := t.TempDir()
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	log, err := New(root, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Infow("form submitted", "form", "contact")
	_ = log.Sync()

	path := filepath.Join(root, "logs", time.Now().Format("2006-01-02")+".log")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"form submitted"`) || !strings.Contains(string(raw), `"form":"contact"`) {
		t.Fatalf("unexpected log contents: %s", raw)
	}
}
