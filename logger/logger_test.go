package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSensitiveKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("request", "auth_token", "abc.def.ghi", "Authorization", "Bearer x", "topic", "Photosynthesis")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries: got=%d want=1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["auth_token"] != "[REDACTED]" || fields["Authorization"] != "[REDACTED]" {
		t.Fatalf("secret fields not redacted: %v", fields)
	}
	if fields["topic"] != "Photosynthesis" {
		t.Fatalf("topic: got=%v", fields["topic"])
	}
}

func TestOddKeyValuesKept(t *testing.T) {
	got := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Fatalf("got=%v", got)
	}
}
