package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDebugMode(t *testing.T) {
	l := New("debug", Options{})
	if l == nil {
		t.Fatal("expected logger, got nil")
	}
	if !l.Core().Enabled(-1) { // DebugLevel
		t.Fatal("debug mode should enable debug level")
	}
}

func TestNewReleaseModeWritesFile(t *testing.T) {
	dir := t.TempDir()
	l := New("release", Options{Dir: dir, Filename: "test.log"})
	if l == nil {
		t.Fatal("expected logger, got nil")
	}
	l.Info("hello")
	_ = l.Sync()

	if _, err := os.Stat(filepath.Join(dir, "test.log")); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestSWAttachesFields(t *testing.T) {
	if SW() == nil {
		t.Fatal("SW without fields should still return a logger")
	}
	if SW("request_id", "abc") == nil {
		t.Fatal("SW with fields should return a logger")
	}
}
