package domain

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	CommandSetRoute = "set_route"
	CommandStop     = "stop"
)

// A command for a vehicle's remote control endpoint.
// Speed and direction are only meaningful for set_route.
type Command struct {
	Type    string
	License string
	Speed   float64
	DirX    float64
	DirY    float64
}

func SetRoute(license string, speed float64, w Waypoint) Command {
	return Command{Type: CommandSetRoute, License: license, Speed: speed, DirX: w.DirX, DirY: w.DirY}
}

func Stop(license string) Command {
	return Command{Type: CommandStop, License: license}
}

// Encode the command as the key/value pairs of the vehicle protocol.
func (c Command) Values() url.Values {
	v := url.Values{}
	v.Set("type", c.Type)
	v.Set("license", c.License)
	if c.Type == CommandSetRoute {
		v.Set("speed", strconv.FormatFloat(c.Speed, 'f', 2, 64))
		v.Set("direction_x", strconv.FormatFloat(c.DirX, 'f', 4, 64))
		v.Set("direction_y", strconv.FormatFloat(c.DirY, 'f', 4, 64))
	}
	return v
}

// Decode a command from protocol key/value pairs.
func ParseCommand(v url.Values) (Command, error) {
	c := Command{Type: v.Get("type"), License: v.Get("license")}

	switch c.Type {
	case CommandStop:
		return c, nil
	case CommandSetRoute:
	default:
		return Command{}, fmt.Errorf("parse command: unknown type %q", c.Type)
	}

	fields := []struct {
		key string
		dst *float64
	}{
		{"speed", &c.Speed},
		{"direction_x", &c.DirX},
		{"direction_y", &c.DirY},
	}
	for _, f := range fields {
		f64, err := strconv.ParseFloat(v.Get(f.key), 64)
		if err != nil {
			return Command{}, fmt.Errorf("parse command: %s: %w", f.key, err)
		}
		*f.dst = f64
	}

	return c, nil
}
