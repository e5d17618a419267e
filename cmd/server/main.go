package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"runmap-service/internal/adapters/prefs"
	"runmap-service/internal/adapters/render"
	"runmap-service/internal/adapters/routing"
	"runmap-service/internal/api"
	"runmap-service/internal/config"
	"runmap-service/internal/platform/db"
	"runmap-service/internal/ports"
	"runmap-service/internal/services"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (preference store, ORS, layer renderer) behind
// ports, restores the last run and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	store, closeStore, err := openPreferenceStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	var provider ports.RoutingProvider
	if cfg.RoutingBackend == "ors" {
		ors, err := routing.NewORSRoutingProvider(cfg.ORSAPIKey, cfg.ORSProfile)
		if err != nil {
			log.Fatal(err)
		}
		provider = ors
	}

	ctx := context.Background()
	preferences := services.NewPreferences(store)

	followRoads, err := preferences.GetFollowRoads(ctx)
	if err != nil {
		log.Printf("read followRoads failed, using default: %v", err)
	}

	renderer := render.NewLayerRenderer()
	run := services.NewRunController(services.NewSegmentSource(provider), renderer, preferences, followRoads)
	session := services.NewSession(run, preferences)

	if err := session.RestoreLastRun(ctx); err != nil {
		log.Printf("restore last run failed: %v", err)
	}

	router := api.NewRouter(run, session, preferences, renderer)

	// Write timeout covers a full replay of an imported run against the routing backend.
	log.Printf("Server listening addr=:%s prefs=%s routing=%s", cfg.Port, cfg.PrefsBackend, cfg.RoutingBackend)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openPreferenceStore(cfg *config.Config) (ports.PreferenceStore, func(), error) {
	switch cfg.PrefsBackend {
	case "memory":
		return prefs.NewMemoryPreferenceStore(), func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect redis %q: %w", cfg.RedisAddr, err)
		}
		return prefs.NewRedisPreferenceStore(client, "runmap"), func() { _ = client.Close() }, nil

	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := prefs.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return prefs.NewSQLPreferenceStore(conn), closer(conn), nil

	default:
		conn, err := db.OpenSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := prefs.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return prefs.NewSqlitePreferenceStore(conn), closer(conn), nil
	}
}

func closer(conn *sql.DB) func() {
	return func() { _ = conn.Close() }
}
