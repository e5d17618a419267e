package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runmap-service/internal/adapters/prefs"
	"runmap-service/internal/config"
	"runmap-service/internal/platform/db"
	"runmap-service/internal/services"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool initializes the Postgres preference schema and can seed the
// last run from a .runmap file.
func main() {
	seedPath := flag.String("seed-run", config.Get("SEED_RUN_PATH", ""), "optional .runmap file to store as the last run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := prefs.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *seedPath == "" {
		return
	}

	log.Println("Seeding last run...")
	if err := seedLastRun(context.Background(), prefs.NewSQLPreferenceStore(conn), *seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

func seedLastRun(ctx context.Context, store *prefs.SQLPreferenceStore, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed last run: read %q: %w", path, err)
	}

	if _, err := services.DeserializeRun(b); err != nil {
		return fmt.Errorf("seed last run: %w", err)
	}

	return services.NewPreferences(store).SaveLastRun(ctx, b)
}
