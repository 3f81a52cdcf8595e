package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"lesson_id", "abc",
		"user_id", "42",
		"api_token", "t0k3n",
	})
	if len(out) != 6 {
		t.Fatalf("len: want=6 got=%d", len(out))
	}
	if out[1] != "abc" {
		t.Fatalf("lesson_id should pass through, got=%v", out[1])
	}
	if s, _ := out[3].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("user_id should be hashed, got=%v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("token should be redacted, got=%v", out[5])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"module_id", "m", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("odd kv list: got=%v", out)
	}
}

func TestNewAndWith(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	child := log.With("service", "LessonService")
	if child == nil || child.SugaredLogger == nil {
		t.Fatalf("With returned nil logger")
	}
	NewNop().Info("discarded", "k", "v")
}
