package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "FRONTEND_URL", "LOG_LEVEL", "GRID_WIDTH", "GRID_HEIGHT", "WIN_SCORE", "PICKUP_COUNT",
		"BROADCAST_HZ", "STALE_AFTER", "SWEEP_INTERVAL", "GRACE_PERIOD",
	} {
		t.Setenv(k, "")
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c != Defaults() {
		t.Fatalf("Load() = %+v, want defaults %+v", c, Defaults())
	}
	if c.Addr() != ":3001" {
		t.Fatalf("addr = %q", c.Addr())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FRONTEND_URL", "*")
	t.Setenv("GRID_WIDTH", "30")
	t.Setenv("WIN_SCORE", "3")
	t.Setenv("GRACE_PERIOD", "250ms")
	t.Setenv("BROADCAST_HZ", "0")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "9000" || c.FrontendURL != "*" || c.GridWidth != 30 || c.WinScore != 3 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.GracePeriod != 250*time.Millisecond || c.BroadcastHz != 0 {
		t.Fatalf("overrides not applied: %+v", c)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GRID_WIDTH", "wide")
	t.Setenv("STALE_AFTER", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unparsable values")
	}
}

func TestGetEnvVariable(t *testing.T) {
	if _, err := GetEnvVariable(""); err == nil {
		t.Fatalf("expected error for empty key")
	}
	t.Setenv("CHEESE_TEST_VAR", "gouda")
	v, err := GetEnvVariable("CHEESE_TEST_VAR")
	if err != nil || v != "gouda" {
		t.Fatalf("GetEnvVariable = %q,%v", v, err)
	}
}
