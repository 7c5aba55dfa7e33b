package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{"": ModeDev, "dev": ModeDev, " PROD ": ModeProd, "silence": ModeSilence}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if ModeProd.String() != "prod" {
		t.Fatalf("String() = %q", ModeProd.String())
	}
}

type syncBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuf) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuf) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	out := new(syncBuf)
	ah := NewAsyncHandler(slog.NewTextHandler(out, nil), 64)
	log := slog.New(ah).With(slog.String("game", "g1"))
	for i := 0; i < 10; i++ {
		log.Info("card revealed", slog.Int("round", i))
	}
	ah.Close()
	ah.Close()

	got := out.String()
	if n := strings.Count(got, "card revealed"); n+int(ah.Dropped()) != 10 {
		t.Fatalf("written %d + dropped %d != 10", n, ah.Dropped())
	}
	if !strings.Contains(got, "game=g1") {
		t.Fatalf("attrs lost: %q", got)
	}

	log.Info("after close")
	if strings.Contains(out.String(), "after close") {
		t.Fatalf("record accepted after Close")
	}
	if ah.Dropped() == 0 {
		t.Fatalf("record after Close should be counted as dropped")
	}
}

func TestNilAsyncHandler(t *testing.T) {
	var ah *AsyncHandler
	if ah.Ready() || ah.Dropped() != 0 {
		t.Fatalf("nil handler should be not ready")
	}
	ah.Close()
}

func TestNewWriterLoggerProdIsJSON(t *testing.T) {
	var buf bytes.Buffer
	NewWriterLogger(&buf, ModeProd).Info("hello", slog.Int("n", 1))
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"n":1`) {
		t.Fatalf("want json, got %q", buf.String())
	}
	buf.Reset()
	NewWriterLogger(&buf, ModeProd).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("prod should drop debug")
	}
}
