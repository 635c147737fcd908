package repositories

import (
	"context"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/db"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *SqliteVehicleRepository {
	t.Helper()

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSQLiteSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	// Running it twice must be harmless.
	if err := InitSQLiteSchema(conn); err != nil {
		t.Fatalf("init schema again: %v", err)
	}

	return NewSqliteVehicleRepository(conn)
}

func TestSqliteVehicleRepositoryRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)

	in := []domain.Vehicle{
		{License: "AAA", URL: "http://a", Start: domain.Point{X: 1, Y: 2}, Dest: domain.Point{X: 3, Y: 4}, RegisteredAt: at},
		{License: "BBB", URL: "http://b", Start: domain.Point{X: -1.5}, Dest: domain.Point{Y: 9}, RegisteredAt: at.Add(time.Second)},
		{License: "AAA", URL: "http://a2", RegisteredAt: at.Add(2 * time.Second)},
	}
	for _, v := range in {
		if err := repo.SaveVehicle(ctx, v); err != nil {
			t.Fatalf("SaveVehicle(%s): %v", v.License, err)
		}
	}

	out, err := repo.ListVehicles(ctx)
	if err != nil {
		t.Fatalf("ListVehicles: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d vehicles, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].License != in[i].License || out[i].URL != in[i].URL {
			t.Fatalf("vehicle %d = %+v, want %+v", i, out[i], in[i])
		}
		if out[i].Start != in[i].Start || out[i].Dest != in[i].Dest {
			t.Fatalf("vehicle %d coordinates = %+v", i, out[i])
		}
		if !out[i].RegisteredAt.Equal(in[i].RegisteredAt) {
			t.Fatalf("vehicle %d time = %v, want %v", i, out[i].RegisteredAt, in[i].RegisteredAt)
		}
	}
}

func TestSeedFromJSON(t *testing.T) {
	repo := openTestDB(t)

	path := filepath.Join(t.TempDir(), "vehicles.json")
	body := `[
		{"license": "SEED-1", "url": "http://s1", "start": [0, 0], "dest": [100, 0]},
		{"license": " SEED-2 ", "url": "http://s2", "start": [5, 5], "dest": [0, 0], "registered_at": "2026-01-01T00:00:00Z"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := SeedFromJSON(context.Background(), repo, path)
	if err != nil {
		t.Fatalf("SeedFromJSON: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded %d, want 2", n)
	}

	out, _ := repo.ListVehicles(context.Background())
	if len(out) != 2 || out[1].License != "SEED-2" || out[0].Dest.X != 100 {
		t.Fatalf("journal = %+v", out)
	}
}

func TestSeedFromJSONRejectsEmptyLicense(t *testing.T) {
	repo := openTestDB(t)

	path := filepath.Join(t.TempDir(), "vehicles.json")
	if err := os.WriteFile(path, []byte(`[{"license": "  "}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := SeedFromJSON(context.Background(), repo, path); err == nil {
		t.Fatal("expected error for empty license")
	}
	if out, _ := repo.ListVehicles(context.Background()); len(out) != 0 {
		t.Fatalf("journal = %+v, want empty", out)
	}
}
