package main

import (
	"context"
	"database/sql"
	"errors"
	"hivemind-service/internal/adapters/cache"
	"hivemind-service/internal/adapters/registry"
	"hivemind-service/internal/adapters/repositories"
	"hivemind-service/internal/adapters/vehicle"
	"hivemind-service/internal/api"
	"hivemind-service/internal/config"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/clock"
	"hivemind-service/internal/platform/db"
	"hivemind-service/internal/platform/obs"
	"hivemind-service/internal/ports"
	"hivemind-service/internal/roadnet"
	"hivemind-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (HTTP vehicles, SQL journal, route cache) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	cfg := config.LoadServer()
	pflag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	pflag.StringVar(&cfg.CityMapPath, "map", cfg.CityMapPath, "road map file (.json, .yaml, .geojson)")
	pflag.StringVar(&cfg.RegistryHost, "registry", cfg.RegistryHost, "fleet registry base URL")
	pflag.Float64Var(&cfg.DefaultSpeed, "speed", cfg.DefaultSpeed, "commanded vehicle speed")
	pflag.Float64Var(&cfg.EndpointEpsilon, "epsilon", cfg.EndpointEpsilon, "endpoint merge distance")
	pflag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite journal path (ignored when DATABASE_URL is set)")
	pflag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the route cache")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	pflag.Parse()

	obs.SetLevel(cfg.LogLevel)

	segments, err := roadnet.LoadFile(cfg.CityMapPath)
	if err != nil {
		log.Fatal(err)
	}
	graph := roadnet.Build(segments, cfg.EndpointEpsilon)
	log.WithFields(log.Fields{
		"map":   cfg.CityMapPath,
		"nodes": len(graph.Nodes),
		"edges": len(graph.Edges),
	}).Info("road network loaded")

	conn, journal, routeCache, err := openStorage(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RedisAddr != "" {
		client, err := cache.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, keeping SQL route cache")
		} else {
			defer client.Close()
			routeCache = cache.NewRedisRouteCache(client, cfg.RouteCacheTTL)
		}
	}

	driveCfg := services.DriveConfig{
		Speed:           cfg.DefaultSpeed,
		EarlyPollMargin: cfg.PollEarly,
		Proximity:       cfg.WaypointProximity,
		CallTimeout:     cfg.VehicleCallTimeout,
	}

	clk := clock.Real()
	dispatcher := services.NewDispatcher(ctx, vehicle.NewHTTPClient(cfg.VehicleCallTimeout), clk, driveCfg)

	coord := &services.Coordinator{
		Planner:    &services.Planner{Graph: graph, Cache: routeCache},
		Registry:   domain.NewFleetRegistry(domain.AdmitAll),
		Dispatcher: dispatcher,
		Notifier:   registry.NewHTTPNotifier(cfg.RegistryHost, 5*time.Second),
		Journal:    journal,
		Clock:      clk,
		Speed:      cfg.DefaultSpeed,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(coord),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// Drive loops share ctx; they end once the signal has cancelled it.
		stop()
		dispatcher.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

// openStorage picks Postgres when DATABASE_URL is set and a local SQLite file
// otherwise. The same database backs the journal and the default route cache.
func openStorage(cfg config.Server) (*sql.DB, ports.VehicleRepository, ports.RouteCache, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		return conn, repositories.NewSQLVehicleRepository(conn), cache.NewSQLRouteCache(conn), nil
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, nil, err
		}
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := repositories.InitSQLiteSchema(conn); err != nil {
		conn.Close()
		return nil, nil, nil, err
	}
	return conn, repositories.NewSqliteVehicleRepository(conn), cache.NewSqliteRouteCache(conn), nil
}
