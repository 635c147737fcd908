package services

import (
	"context"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/clock"
	"hivemind-service/internal/ports"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultSpeed             = 10.0
	DefaultEarlyPollMargin   = 2 * time.Second
	DefaultWaypointProximity = 10.0
	DefaultCallTimeout       = 5 * time.Second
)

type DriveState string

const (
	StateInitializing DriveState = "initializing"
	StateCruising     DriveState = "cruising"
	StateVerifying    DriveState = "verifying"
	StateTurning      DriveState = "turning"
	StateStopped      DriveState = "stopped"
)

type DriveConfig struct {
	// Speed is both the commanded speed and the basis for travel-time estimates.
	Speed float64
	// EarlyPollMargin is subtracted from each leg's travel time before polling,
	// and is also the one extra wait granted when the vehicle is not yet near.
	EarlyPollMargin time.Duration
	Proximity       float64
	// CallTimeout bounds each command or poll; zero means no per-call bound.
	CallTimeout time.Duration
}

func DefaultDriveConfig() DriveConfig {
	return DriveConfig{
		Speed:           DefaultSpeed,
		EarlyPollMargin: DefaultEarlyPollMargin,
		Proximity:       DefaultWaypointProximity,
		CallTimeout:     DefaultCallTimeout,
	}
}

// DriveController steers one vehicle along a planned route using dead
// reckoning: it sleeps for the estimated travel time of each leg, polls the
// vehicle once to confirm arrival, then turns or stops it.
//
// Every network failure is logged and the loop carries on as if the call
// had succeeded; there are no retries.
type DriveController struct {
	Client ports.VehicleClient
	Clock  clock.Clock
	Config DriveConfig

	// OnTransition, if set, is called on every state change with the index of
	// the current leg.
	OnTransition func(state DriveState, leg int)
}

// Run drives v along plan until the final waypoint is reached or ctx is
// cancelled. It returns ctx.Err() on cancellation and nil otherwise.
func (c *DriveController) Run(ctx context.Context, v domain.Vehicle, plan []domain.Waypoint) error {
	logger := log.WithFields(log.Fields{"license": v.License, "url": v.URL})
	speed := c.Config.Speed
	margin := c.Config.EarlyPollMargin

	c.enter(StateInitializing, 0)
	logger.WithField("waypoints", len(plan)).Info("drive loop started")

	if len(plan) > 0 {
		c.send(ctx, logger, domain.SetRoute(v.License, speed, plan[0]), v.URL)
	}

	for i := 0; i+1 < len(plan); i++ {
		leg := plan[i]
		next := plan[i+1]

		// Without a positive speed and length there is nothing to wait for.
		if speed <= 0 || leg.DistToNext <= 0 {
			continue
		}

		c.enter(StateCruising, i)
		travel := time.Duration(leg.DistToNext / speed * float64(time.Second))
		if err := c.sleep(ctx, max(0, travel-margin)); err != nil {
			return c.cancelled(logger, i, err)
		}

		c.enter(StateVerifying, i)
		if !c.isNear(ctx, logger, v.URL, i+1, next) {
			if err := c.sleep(ctx, margin); err != nil {
				return c.cancelled(logger, i, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return c.cancelled(logger, i, err)
		}

		if i+1 == len(plan)-1 {
			logger.WithFields(log.Fields{"x": next.X, "y": next.Y}).Info("destination reached")
			c.send(ctx, logger, domain.Stop(v.License), v.URL)
			c.enter(StateStopped, i+1)
			return nil
		}

		c.enter(StateTurning, i+1)
		c.send(ctx, logger, domain.SetRoute(v.License, speed, next), v.URL)
	}

	c.enter(StateStopped, max(0, len(plan)-1))
	logger.Info("drive loop finished")
	return nil
}

func (c *DriveController) enter(state DriveState, leg int) {
	if c.OnTransition != nil {
		c.OnTransition(state, leg)
	}
}

func (c *DriveController) cancelled(logger *log.Entry, leg int, err error) error {
	logger.WithError(err).WithField("leg", leg).Info("drive loop cancelled")
	c.enter(StateStopped, leg)
	return err
}

func (c *DriveController) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.Clock.After(d):
		return nil
	}
}

func (c *DriveController) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Config.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Config.CallTimeout)
}

func (c *DriveController) send(ctx context.Context, logger *log.Entry, cmd domain.Command, baseURL string) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	entry := logger.WithField("command", cmd.Type)
	if cmd.Type == domain.CommandSetRoute {
		entry = entry.WithFields(log.Fields{"speed": cmd.Speed, "dir_x": cmd.DirX, "dir_y": cmd.DirY})
	}

	if err := c.Client.SendCommand(callCtx, baseURL, cmd); err != nil {
		entry.WithError(err).Warn("command failed")
		return
	}
	entry.Info("command sent")
}

// isNear polls the vehicle once. A failed poll counts as near so the route
// keeps advancing.
func (c *DriveController) isNear(
	ctx context.Context,
	logger *log.Entry,
	baseURL string,
	index int,
	target domain.Waypoint,
) bool {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	pos, err := c.Client.Position(callCtx, baseURL)
	if err != nil {
		logger.WithError(err).WithField("waypoint", index).Warn("position poll failed, assuming near")
		return true
	}

	dist := pos.Distance(target.Position())
	logger.WithFields(log.Fields{
		"waypoint": index,
		"x":        pos.X,
		"y":        pos.Y,
		"dist":     dist,
	}).Info("position polled")

	return dist < c.Config.Proximity
}
