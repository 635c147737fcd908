package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DEFAULT_SPEED", "POLL_EARLY_SECS", "VEHICLE_CALL_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := LoadServer()
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DefaultSpeed != 10 {
		t.Errorf("speed = %v, want 10", cfg.DefaultSpeed)
	}
	if cfg.PollEarly != 2*time.Second {
		t.Errorf("poll early = %v, want 2s", cfg.PollEarly)
	}
	if cfg.VehicleCallTimeout != 5*time.Second {
		t.Errorf("call timeout = %v, want 5s", cfg.VehicleCallTimeout)
	}
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv("DEFAULT_SPEED", "12.5")
	t.Setenv("POLL_EARLY_SECS", "1.5")
	t.Setenv("VEHICLE_CALL_TIMEOUT", "750ms")
	t.Setenv("WAYPOINT_PROXIMITY", "not-a-number")

	cfg := LoadServer()
	if cfg.DefaultSpeed != 12.5 {
		t.Errorf("speed = %v, want 12.5", cfg.DefaultSpeed)
	}
	if cfg.PollEarly != 1500*time.Millisecond {
		t.Errorf("poll early = %v, want 1.5s", cfg.PollEarly)
	}
	if cfg.VehicleCallTimeout != 750*time.Millisecond {
		t.Errorf("call timeout = %v, want 750ms", cfg.VehicleCallTimeout)
	}
	if cfg.WaypointProximity != 10 {
		t.Errorf("proximity = %v, want fallback 10", cfg.WaypointProximity)
	}
}
