package store

import (
	"testing"
	"time"
)

func TestPoolConfigDefaults(t *testing.T) {
	got := PoolConfig{}.withDefaults()
	if got.MaxOpen != 10 || got.MaxIdle != 5 || got.ConnMaxLife != time.Hour {
		t.Fatalf("unexpected defaults: %+v", got)
	}

	cfg := PoolConfig{MaxOpen: 25, MaxIdle: 8, ConnMaxLife: 30 * time.Minute}
	if got := cfg.withDefaults(); got != cfg {
		t.Fatalf("explicit values must pass through, got %+v", got)
	}

	got = PoolConfig{MaxOpen: -1, MaxIdle: 3}.withDefaults()
	if got.MaxOpen != 10 || got.MaxIdle != 3 {
		t.Fatalf("negative values must fall back: %+v", got)
	}
}
