package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestFromSlogCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l := FromSlog(base, "cron", slog.LevelInfo)
	l.Printf("start job %d", 7)

	out := buf.String()
	if !strings.Contains(out, "component=cron") {
		t.Fatalf("expected component attribute, got %q", out)
	}
	if !strings.Contains(out, `msg="start job 7"`) {
		t.Fatalf("expected formatted message, got %q", out)
	}
	if !strings.Contains(out, "level=INFO") {
		t.Fatalf("expected info level, got %q", out)
	}
}

func TestFromSlogNilFallsBack(t *testing.T) {
	l := FromSlog(nil, "cron", slog.LevelInfo)
	if l.Prefix() != "[cron] " {
		t.Fatalf("unexpected prefix %q", l.Prefix())
	}
}
