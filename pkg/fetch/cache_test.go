package fetch

import (
	"context"
	"errors"
	"testing"
	"time"
)

type payload struct {
	Value string `json:"value"`
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache("", "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", payload{Value: "v"}, time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var out payload
	if err := c.Get(ctx, "k", &out); err != nil {
		t.Fatalf("Expected hit, got %v", err)
	}
	if out.Value != "v" {
		t.Errorf("Expected v, got %q", out.Value)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache("", "", 0)
	ctx := context.Background()

	c.Set(ctx, "k", payload{Value: "v"}, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	var out payload
	if err := c.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestCacheFlush(t *testing.T) {
	c := NewCache("", "", 0)
	ctx := context.Background()

	c.Set(ctx, "k", payload{Value: "v"}, time.Minute)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var out payload
	if err := c.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after flush, got %v", err)
	}
}
