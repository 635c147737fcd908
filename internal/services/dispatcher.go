package services

import (
	"context"
	"errors"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/clock"
	"hivemind-service/internal/ports"
	"sync"
	"time"
)

// DriveStatus is a point-in-time copy of a DriveHandle.
type DriveStatus struct {
	License    string     `json:"license"`
	URL        string     `json:"url"`
	State      DriveState `json:"state"`
	Leg        int        `json:"leg"`
	Waypoints  int        `json:"waypoints"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// DriveHandle tracks one running drive loop.
type DriveHandle struct {
	mu     sync.Mutex
	status DriveStatus
	done   chan struct{}
}

func (h *DriveHandle) transition(state DriveState, leg int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.State = state
	h.status.Leg = leg
}

func (h *DriveHandle) finish(at time.Time, err error) {
	h.mu.Lock()
	h.status.State = StateStopped
	h.status.FinishedAt = &at
	if err != nil {
		h.status.Error = err.Error()
	}
	h.mu.Unlock()
	close(h.done)
}

// Status returns a copy of the handle's current state.
func (h *DriveHandle) Status() DriveStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.status
	if s.FinishedAt != nil {
		at := *s.FinishedAt
		s.FinishedAt = &at
	}
	return s
}

// Done is closed when the drive loop has returned.
func (h *DriveHandle) Done() <-chan struct{} {
	return h.done
}

// ErrDispatcherClosed is recorded on handles started after Wait.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher runs one independent drive loop per vehicle under a shared
// base context. Cancelling that context ends every loop.
type Dispatcher struct {
	ctx    context.Context
	client ports.VehicleClient
	clock  clock.Clock
	config DriveConfig

	mu      sync.Mutex
	handles []*DriveHandle
	closed  bool
	wg      sync.WaitGroup
}

func NewDispatcher(ctx context.Context, client ports.VehicleClient, clk clock.Clock, cfg DriveConfig) *Dispatcher {
	return &Dispatcher{
		ctx:    ctx,
		client: client,
		clock:  clk,
		config: cfg,
	}
}

// Start launches the drive loop for v at the given speed and returns
// immediately. Once the base context is done or Wait has been called, the
// handle is recorded as already stopped and no loop runs.
func (d *Dispatcher) Start(v domain.Vehicle, plan []domain.Waypoint, speed float64) *DriveHandle {
	h := &DriveHandle{
		status: DriveStatus{
			License:   v.License,
			URL:       v.URL,
			State:     StateInitializing,
			Waypoints: len(plan),
			StartedAt: d.clock.Now(),
		},
		done: make(chan struct{}),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handles = append(d.handles, h)

	if d.closed || d.ctx.Err() != nil {
		err := d.ctx.Err()
		if err == nil {
			err = ErrDispatcherClosed
		}
		h.finish(d.clock.Now(), err)
		return h
	}

	cfg := d.config
	cfg.Speed = speed
	ctrl := &DriveController{
		Client:       d.client,
		Clock:        d.clock,
		Config:       cfg,
		OnTransition: h.transition,
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		err := ctrl.Run(d.ctx, v, plan)
		h.finish(d.clock.Now(), err)
	}()

	return h
}

// Handles returns status copies of every loop started so far, in start order.
func (d *Dispatcher) Handles() []DriveStatus {
	d.mu.Lock()
	handles := make([]*DriveHandle, len(d.handles))
	copy(handles, d.handles)
	d.mu.Unlock()

	out := make([]DriveStatus, 0, len(handles))
	for _, h := range handles {
		out = append(out, h.Status())
	}
	return out
}

// Wait closes the dispatcher to new loops and blocks until every started
// loop has returned.
func (d *Dispatcher) Wait() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
