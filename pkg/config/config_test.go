package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("Expected default listen addr :8080, got %s", cfg.ListenAddr)
	}
	if cfg.DebounceWindow != 300*time.Millisecond {
		t.Errorf("Expected default debounce window 300ms, got %v", cfg.DebounceWindow)
	}
	if cfg.MinQueryLength != 2 {
		t.Errorf("Expected default min query length 2, got %d", cfg.MinQueryLength)
	}
	if cfg.MaxPrice != 10000 {
		t.Errorf("Expected default max price 10000, got %v", cfg.MaxPrice)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STOREFRONT_LISTEN_ADDR", ":9090")
	t.Setenv("STOREFRONT_MIN_QUERY_LENGTH", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("Expected listen addr from env, got %s", cfg.ListenAddr)
	}
	if cfg.MinQueryLength != 3 {
		t.Errorf("Expected min query length from env, got %d", cfg.MinQueryLength)
	}
}
