package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"laneboard/internal/logging"
)

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -30)

	write := func(name string, mtime time.Time) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
		return path
	}

	stale := write("laneboardd-20260101T000000.000Z.log", old)
	current := write("laneboardd-20260102T000000.000Z.log", old)
	fresh := write("laneboardd-20260301T000000.000Z.log", time.Now())
	other := write("notes.txt", old)

	removed := logging.PruneLogs(nil, dir, "laneboardd-*.log", 14, current)
	if removed != 1 {
		t.Fatalf("expected 1 file removed, got %d", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log removed, stat err = %v", err)
	}
	for _, path := range []string{current, fresh, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to survive: %v", filepath.Base(path), err)
		}
	}

	if got := logging.PruneLogs(nil, dir, "*.txt", 0); got != 0 {
		t.Fatalf("expected retention 0 to disable pruning, got %d", got)
	}
}
