package ctxlog

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected the embedded logger")
	}
	FromContext(ctx).Debug("city resolved", "city", "Chicago")
	if !strings.Contains(buf.String(), "city=Chicago") {
		t.Fatalf("expected debug record, got %q", buf.String())
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatalf("expected a fallback logger")
	}
	logger.Error("dropped")
}

func TestNewQuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug records to be filtered, got %q", buf.String())
	}
}
