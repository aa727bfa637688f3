package scoreboard

import (
	"context"
	"testing"
)

// testContext stands in for t.Context (Go 1.24+): the context is canceled
// just before the test's Cleanup-registered functions run.
func testContext(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
