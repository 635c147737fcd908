package services

import (
	"context"
	"errors"
	"fmt"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/clock"
	"hivemind-service/internal/platform/obs"
	"hivemind-service/internal/ports"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNoPath      = errors.New("no path found")
	ErrEntryDenied = errors.New("not allowed to enter roadway")
)

const notifyTimeout = 5 * time.Second

type RegisterVehicleRequest struct {
	License string
	URL     string
	Start   domain.Point
	Dest    domain.Point
}

// Coordinator owns the shared state every registration touches.
// Notifier and Journal are optional.
type Coordinator struct {
	Planner    *Planner
	Registry   *domain.FleetRegistry
	Dispatcher *Dispatcher
	Notifier   ports.RegistryNotifier
	Journal    ports.VehicleRepository
	Clock      clock.Clock
	Speed      float64
}

// RegisterVehicle plans a route, admits the vehicle, records it and starts
// its drive loop. A rejected registration leaves no trace in the registry.
func (c *Coordinator) RegisterVehicle(ctx context.Context, req RegisterVehicleRequest) (_ domain.Vehicle, err error) {
	defer obs.Time(ctx, "services.RegisterVehicle")(&err)

	logger := log.WithFields(log.Fields{
		"req_id":  obs.RequestID(ctx),
		"license": req.License,
	})

	plan, ok := c.Planner.Plan(ctx, req.Start, req.Dest)
	if !ok {
		logger.WithFields(log.Fields{
			"start": req.Start,
			"dest":  req.Dest,
		}).Warn("no path found")
		return domain.Vehicle{}, fmt.Errorf("register vehicle %q: %w", req.License, ErrNoPath)
	}

	v := domain.Vehicle{
		License:      req.License,
		URL:          req.URL,
		Start:        req.Start,
		Dest:         req.Dest,
		RegisteredAt: c.now(),
	}

	if !c.Registry.CanEnterRoadway(v) {
		return domain.Vehicle{}, fmt.Errorf("register vehicle %q: %w", req.License, ErrEntryDenied)
	}

	c.Registry.Register(v)
	c.Dispatcher.Start(v, plan, c.Speed)

	logger.WithFields(log.Fields{
		"url":       v.URL,
		"waypoints": len(plan),
		"fleet":     c.Registry.Count(),
	}).Info("vehicle registered")

	if c.Notifier != nil {
		go c.notify(v)
	}

	if c.Journal != nil {
		// The row is kept even if the caller goes away mid-request.
		if err := c.Journal.SaveVehicle(context.WithoutCancel(ctx), v); err != nil {
			logger.WithError(err).Warn("journal write failed")
		}
	}

	return v, nil
}

func (c *Coordinator) notify(v domain.Vehicle) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := c.Notifier.NotifyRegistered(ctx, v); err != nil {
		log.WithError(err).WithField("license", v.License).Warn("registry notification failed")
	}
}

func (c *Coordinator) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}
