package main

import (
	"context"
	"errors"
	"fmt"
	"hivemind-service/internal/config"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/emulator"
	"hivemind-service/internal/platform/obs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// vehiclesim runs one emulated car: it serves the vehicle control protocol,
// integrates its motion, and registers itself with the coordinator.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	license := pflag.String("license", "CAR123", "license plate")
	port := pflag.Int("port", 9001, "listen port for the control protocol")
	host := pflag.String("advertise-host", "127.0.0.1", "host the coordinator should use to reach this car")
	coordinator := pflag.String("coordinator", config.Get("COORDINATOR_URL", "http://127.0.0.1:8080"), "coordinator base URL")
	startX := pflag.Float64("start-x", 0, "start x")
	startY := pflag.Float64("start-y", 0, "start y")
	destX := pflag.Float64("dest-x", 100, "destination x")
	destY := pflag.Float64("dest-y", 0, "destination y")
	maxAccel := pflag.Float64("max-accel", emulator.DefaultMaxAccel, "acceleration limit, 0 for instant")
	logLevel := pflag.String("log-level", config.Get("LOG_LEVEL", "info"), "log level")
	pflag.Parse()

	obs.SetLevel(*logLevel)

	car := emulator.NewCar(*license, domain.Point{X: *startX, Y: *startY}, *maxAccel)
	selfURL := fmt.Sprintf("http://%s", net.JoinHostPort(*host, fmt.Sprint(*port)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           emulator.Handler(car),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(log.Fields{"license": *license, "addr": srv.Addr}).Info("car listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := car.Run(gctx, emulator.DefaultTick)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		client := &http.Client{Timeout: 10 * time.Second}
		dest := domain.Point{X: *destX, Y: *destY}

		reply, err := emulator.RegisterWithCoordinator(gctx, client, *coordinator, car, selfURL, dest)
		if err != nil {
			// The car keeps serving; the coordinator simply never drives it.
			log.WithError(err).Warn("registration failed")
			return nil
		}
		log.WithField("reply", reply).Info("registered with coordinator")
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
