package services

import (
	"context"
	"fmt"
	"hivemind-service/internal/adapters/vehicle"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/clock"
	"testing"
)

func TestDispatcherRunsIndependentLoops(t *testing.T) {
	client := &vehicle.MockVehicleClient{Positions: []domain.Point{{X: 100, Y: 0}}}
	d := NewDispatcher(context.Background(), client, clock.NewManual(epoch), DefaultDriveConfig())

	for i := 0; i < 5; i++ {
		v := domain.Vehicle{License: fmt.Sprintf("CAR-%d", i), URL: "http://car.local"}
		d.Start(v, singleLeg(), DefaultSpeed)
	}
	d.Wait()

	handles := d.Handles()
	if len(handles) != 5 {
		t.Fatalf("handles = %d, want 5", len(handles))
	}
	for i, h := range handles {
		if h.License != fmt.Sprintf("CAR-%d", i) {
			t.Fatalf("handle %d license = %q", i, h.License)
		}
		if h.State != StateStopped || h.FinishedAt == nil || h.Error != "" {
			t.Fatalf("handle %d = %+v, want a clean stop", i, h)
		}
		if h.Leg != 1 || h.Waypoints != 2 {
			t.Fatalf("handle %d leg=%d waypoints=%d", i, h.Leg, h.Waypoints)
		}
	}

	if got := len(client.Commands()); got != 10 {
		t.Fatalf("commands = %d, want set_route+stop per vehicle", got)
	}
}

func TestDispatcherUsesPerVehicleSpeed(t *testing.T) {
	client := &vehicle.MockVehicleClient{Positions: []domain.Point{{X: 100, Y: 0}}}
	d := NewDispatcher(context.Background(), client, clock.NewManual(epoch), DefaultDriveConfig())

	h := d.Start(testVehicle, singleLeg(), 25)
	<-h.Done()

	if got := client.Commands()[0].Speed; got != 25 {
		t.Fatalf("commanded speed = %v, want 25", got)
	}
}

func TestDispatcherCancelRecordsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(ctx, &vehicle.MockVehicleClient{}, clock.NewManual(epoch), DefaultDriveConfig())
	h := d.Start(testVehicle, twoLegs(), DefaultSpeed)
	d.Wait()

	s := h.Status()
	if s.State != StateStopped {
		t.Fatalf("state = %v, want stopped", s.State)
	}
	if s.Error != context.Canceled.Error() {
		t.Fatalf("error = %q, want %q", s.Error, context.Canceled.Error())
	}
}

func TestDispatcherRefusesStartAfterWait(t *testing.T) {
	client := &vehicle.MockVehicleClient{Positions: []domain.Point{{X: 100, Y: 0}}}
	d := NewDispatcher(context.Background(), client, clock.NewManual(epoch), DefaultDriveConfig())
	d.Wait()

	h := d.Start(testVehicle, singleLeg(), DefaultSpeed)
	select {
	case <-h.Done():
	default:
		t.Fatal("handle started after Wait is still running")
	}

	s := h.Status()
	if s.State != StateStopped || s.Error != ErrDispatcherClosed.Error() {
		t.Fatalf("status = %+v, want stopped with %q", s, ErrDispatcherClosed)
	}
	if got := len(client.Commands()); got != 0 {
		t.Fatalf("commands = %d, want none", got)
	}
	if got := len(d.Handles()); got != 1 {
		t.Fatalf("handles = %d, want 1", got)
	}
}
