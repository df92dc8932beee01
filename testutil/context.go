package testutil

import (
	"context"
	"testing"
	"time"
)

const (
	defaultTimeout = 5 * time.Second
	liveTimeout    = 30 * time.Second
)

// ContextWithTimeout bounds calls against the fake server.
func ContextWithTimeout(t *testing.T) context.Context {
	t.Helper()

	return ContextWithCustomTimeout(t, defaultTimeout)
}

// LiveContext bounds calls against the real service, which is slower.
func LiveContext(t *testing.T) context.Context {
	t.Helper()

	return ContextWithCustomTimeout(t, liveTimeout)
}

func ContextWithCustomTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), timeout)
	t.Cleanup(cancel)

	return ctx
}
