package vehicle

import (
	"context"
	"errors"
	"hivemind-service/internal/domain"
	"sync"
)

// MockVehicleClient records every call instead of touching the network.
//
// Position answers come from Positions in order; once they run out the last
// one repeats. PositionErr and CommandErr, when set, fail every call.
type MockVehicleClient struct {
	mu sync.Mutex

	Positions   []domain.Point
	PositionErr error
	CommandErr  error

	// OnCommand, if set, runs before each command is recorded.
	OnCommand func(cmd domain.Command)

	commands []domain.Command
	calls    []string
	polls    int
}

func (c *MockVehicleClient) SendCommand(ctx context.Context, baseURL string, cmd domain.Command) error {
	if c.OnCommand != nil {
		c.OnCommand(cmd)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, cmd.Type)
	c.commands = append(c.commands, cmd)
	return c.CommandErr
}

func (c *MockVehicleClient) Position(ctx context.Context, baseURL string) (domain.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, "poll")
	n := c.polls
	c.polls++

	if c.PositionErr != nil {
		return domain.Point{}, c.PositionErr
	}
	if len(c.Positions) == 0 {
		return domain.Point{}, errors.New("mock vehicle: no position scripted")
	}
	if n >= len(c.Positions) {
		n = len(c.Positions) - 1
	}
	return c.Positions[n], nil
}

// Commands returns the commands sent so far.
func (c *MockVehicleClient) Commands() []domain.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Command, len(c.commands))
	copy(out, c.commands)
	return out
}

// Calls returns the call sequence: command types and "poll" entries.
func (c *MockVehicleClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

// Polls counts Position calls, failed ones included.
func (c *MockVehicleClient) Polls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.polls
}
