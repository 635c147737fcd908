// Package emulator simulates a remotely driven vehicle: it accepts set_route
// and stop commands over HTTP and integrates its position on a fixed tick.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"hivemind-service/internal/domain"
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultTick     = 16 * time.Millisecond
	DefaultMaxAccel = 3.0
)

var (
	ErrWrongLicense  = errors.New("command addressed to another vehicle")
	ErrZeroDirection = errors.New("direction has zero length")
)

// Status is a snapshot of a Car's kinematic state.
type Status struct {
	License     string       `json:"license"`
	Position    domain.Point `json:"position"`
	Direction   domain.Point `json:"direction"`
	Speed       float64      `json:"speed"`
	TargetSpeed float64      `json:"target_speed"`
}

// Car is one simulated vehicle. Safe for concurrent use.
type Car struct {
	mu          sync.Mutex
	license     string
	pos         domain.Point
	dir         domain.Point
	speed       float64
	targetSpeed float64
	// maxAccel limits speed changes per second; zero means instant.
	maxAccel float64
}

func NewCar(license string, start domain.Point, maxAccel float64) *Car {
	return &Car{license: license, pos: start, maxAccel: maxAccel}
}

func (c *Car) License() string {
	return c.license
}

// Apply executes a command. set_route replaces heading and target speed;
// stop brings the target speed to zero.
func (c *Car) Apply(cmd domain.Command) error {
	if cmd.License != c.license {
		return fmt.Errorf("apply %s for %q: %w", cmd.Type, cmd.License, ErrWrongLicense)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.Type {
	case domain.CommandStop:
		c.targetSpeed = 0
	case domain.CommandSetRoute:
		norm := math.Hypot(cmd.DirX, cmd.DirY)
		if norm == 0 {
			return fmt.Errorf("apply set_route: %w", ErrZeroDirection)
		}
		c.dir = domain.Point{X: cmd.DirX / norm, Y: cmd.DirY / norm}
		c.targetSpeed = math.Max(0, cmd.Speed)
	default:
		return fmt.Errorf("apply: unknown command %q", cmd.Type)
	}

	return nil
}

// Step advances the simulation by dt.
func (c *Car) Step(dt time.Duration) {
	secs := dt.Seconds()

	c.mu.Lock()
	defer c.mu.Unlock()

	delta := c.targetSpeed - c.speed
	if c.maxAccel > 0 {
		limit := c.maxAccel * secs
		delta = math.Max(-limit, math.Min(limit, delta))
	}
	c.speed = math.Max(0, c.speed+delta)

	c.pos.X += c.dir.X * c.speed * secs
	c.pos.Y += c.dir.Y * c.speed * secs
}

func (c *Car) Position() domain.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *Car) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		License:     c.license,
		Position:    c.pos,
		Direction:   c.dir,
		Speed:       c.speed,
		TargetSpeed: c.targetSpeed,
	}
}

// Run steps the car every tick until ctx is done, logging its state about
// once a second.
func (c *Car) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	every := max(1, int(time.Second/tick))
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Step(tick)
		}

		if n%every == 0 {
			s := c.Status()
			log.WithFields(log.Fields{
				"license": s.License,
				"x":       s.Position.X,
				"y":       s.Position.Y,
				"speed":   s.Speed,
			}).Debug("car state")
		}
	}
}
