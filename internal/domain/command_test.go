package domain

import "testing"

func TestCommandValuesFormatting(t *testing.T) {
	c := SetRoute("ABC123", 10, Waypoint{DirX: 0.70710678, DirY: -0.70710678})
	v := c.Values()

	want := map[string]string{
		"type":        "set_route",
		"license":     "ABC123",
		"speed":       "10.00",
		"direction_x": "0.7071",
		"direction_y": "-0.7071",
	}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}

	stop := Stop("ABC123").Values()
	if stop.Get("type") != "stop" || stop.Has("speed") {
		t.Errorf("stop values = %v", stop)
	}
}

func TestParseCommand(t *testing.T) {
	c, err := ParseCommand(SetRoute("X1", 7.5, Waypoint{DirX: 1}).Values())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Type != CommandSetRoute || c.License != "X1" || c.Speed != 7.5 || c.DirX != 1 || c.DirY != 0 {
		t.Fatalf("parsed = %+v", c)
	}

	bad := SetRoute("X1", 1, Waypoint{}).Values()
	bad.Set("speed", "fast")
	if _, err := ParseCommand(bad); err == nil {
		t.Fatalf("expected error for non-numeric speed")
	}

	unknown := Stop("X1").Values()
	unknown.Set("type", "reverse")
	if _, err := ParseCommand(unknown); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
