package cache

import (
	"context"
	"testing"
)

func TestNilCacheIsDisabled(t *testing.T) {
	var c *ChatCache

	if _, hit := c.Get(context.Background(), 1); hit {
		t.Fatalf("nil cache must always miss")
	}

	// Set and Invalidate on a nil cache must be safe no-ops.
	c.Set(context.Background(), 1, nil)
	c.Invalidate(context.Background(), 1)
}
