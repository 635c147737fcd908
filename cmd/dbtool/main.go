package main

import (
	"context"
	"database/sql"
	"fmt"
	"hivemind-service/internal/adapters/repositories"
	"hivemind-service/internal/config"
	"hivemind-service/internal/platform/db"
	"hivemind-service/internal/ports"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	databaseURL := pflag.String("database-url", config.Get("DATABASE_URL", ""), "Postgres URL; SQLite is used when empty")
	dbPath := pflag.String("db", config.Get("DB_PATH", "data/app.db"), "SQLite journal path")
	seedPath := pflag.String("seed", config.Get("SEED_PATH", ""), "JSON file of registrations to import")
	list := pflag.Bool("list", false, "print the registration journal")
	pflag.Parse()

	conn, repo, err := open(*databaseURL, *dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()
	log.Info("Schema ready.")

	ctx := context.Background()

	if *seedPath != "" {
		log.WithField("path", *seedPath).Info("Seeding database...")
		n, err := repositories.SeedFromJSON(ctx, repo, *seedPath)
		if err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		log.WithField("vehicles", n).Info("Seeding complete.")
	}

	if *list {
		vehicles, err := repo.ListVehicles(ctx)
		if err != nil {
			log.Fatal(err)
		}
		for _, v := range vehicles {
			fmt.Fprintf(os.Stdout, "%s\t%s\t%s\t(%.2f, %.2f) -> (%.2f, %.2f)\n",
				v.RegisteredAt.Format("2006-01-02T15:04:05Z07:00"), v.License, v.URL,
				v.Start.X, v.Start.Y, v.Dest.X, v.Dest.Y)
		}
	}
}

func open(databaseURL, dbPath string) (*sql.DB, ports.VehicleRepository, error) {
	if databaseURL != "" {
		conn, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("schema initialization failed: %w", err)
		}
		return conn, repositories.NewSQLVehicleRepository(conn), nil
	}

	conn, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSQLiteSchema(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("schema initialization failed: %w", err)
	}
	return conn, repositories.NewSqliteVehicleRepository(conn), nil
}
