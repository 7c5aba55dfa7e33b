package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "cpu", "heap", "allocs"} {
		if _, err := ParseMode(s); err != nil {
			t.Fatalf("ParseMode(%q): %v", s, err)
		}
	}
	if _, err := ParseMode("trace"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunWritesProfile(t *testing.T) {
	dir := t.TempDir()
	for _, m := range []Mode{ModeHeap, ModeAllocs} {
		called := false
		path, err := Run(func() error { called = true; return nil }, m, dir)
		if err != nil || !called {
			t.Fatalf("Run(%s): %v called=%v", m, err, called)
		}
		if path != filepath.Join(dir, string(m)+".pprof") {
			t.Fatalf("path = %s", path)
		}
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Fatalf("profile %s missing or empty: %v", path, err)
		}
	}
}

func TestRunPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Run(func() error { return boom }, ModeNone, ""); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Run(func() error { return boom }, ModeHeap, t.TempDir()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
