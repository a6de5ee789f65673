package diag

import (
	"log/slog"
	"testing"
)

func TestRecorderCapturesWarnings(t *testing.T) {
	rec := NewRecorder()
	SetLogger(slog.New(rec))
	defer SetLogger(slog.Default())

	Warn("first", "key", 1)
	Warn("second")

	msgs := rec.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0] != "first" || msgs[1] != "second" {
		t.Errorf("unexpected messages: %v", msgs)
	}
}

func TestRecorderReset(t *testing.T) {
	rec := NewRecorder()
	SetLogger(slog.New(rec))
	defer SetLogger(slog.Default())

	Warn("gone")
	rec.Reset()
	if msgs := rec.Messages(); len(msgs) != 0 {
		t.Errorf("expected no messages after reset, got %v", msgs)
	}
}

func TestRecorderIgnoresInfo(t *testing.T) {
	rec := NewRecorder()
	l := slog.New(rec)
	l.Info("quiet")
	l.Warn("loud")

	msgs := rec.Messages()
	if len(msgs) != 1 || msgs[0] != "loud" {
		t.Errorf("expected only the warning, got %v", msgs)
	}
}
