package api

import (
	"net/http"
	"runmap-service/internal/api/handlers"
	"runmap-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	run *services.RunController,
	session *services.Session,
	prefs *services.Preferences,
	layers handlers.LayerSource,
) http.Handler {
	mux := http.NewServeMux()

	runHandler := &handlers.RunHandler{
		Run:     run,
		Session: session,
		Prefs:   prefs,
		Layers:  layers,
	}
	prefsHandler := &handlers.PreferencesHandler{Prefs: prefs, Run: run}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/run", runHandler.Current)
	mux.HandleFunc("/run/points", runHandler.AddPoint)
	mux.HandleFunc("/run/points/last", runHandler.RemoveLast)
	mux.HandleFunc("/run/export", runHandler.Export)
	mux.HandleFunc("/run/import", runHandler.Import)
	mux.HandleFunc("/run/layers", runHandler.ListLayers)
	mux.HandleFunc("/run/style-reload", runHandler.StyleReload)
	mux.HandleFunc("/preferences", prefsHandler.Handle)
	mux.Handle("/metrics", promhttp.Handler())

	return loggingMiddleware(mux)
}
