package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runmap-service/internal/adapters/render"
	"runmap-service/internal/api/dto"
	"runmap-service/internal/domain"
	"runmap-service/internal/services"
)

// Source of the GeoJSON layers drawn for the run.
type LayerSource interface {
	FeatureCollection() render.FeatureCollection
}

// RunHandler exposes the current run: placing points, undo, clear,
// import/export and the layers to draw.
type RunHandler struct {
	Run     *services.RunController
	Session *services.Session
	Prefs   *services.Preferences
	Layers  LayerSource
}

// Current serves GET (current run) and DELETE (clear) on /run.
func (h *RunHandler) Current(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodDelete) {
		return
	}

	if r.Method == http.MethodDelete {
		if err := h.Run.Clear(r.Context()); err != nil {
			writeRunError(w, r, "clear run", err)
			return
		}
	}

	res, err := h.runResponse(r.Context())
	if err != nil {
		writeRunError(w, r, "get run", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RunHandler) AddPoint(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	var req dto.AddPointRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Lng == nil || req.Lat == nil {
		writeError(w, r, http.StatusBadRequest, "lng and lat are required")
		return
	}
	if *req.Lat < -90 || *req.Lat > 90 {
		writeError(w, r, http.StatusBadRequest, "lat must be between -90 and 90")
		return
	}

	target := domain.GeoPoint{Lng: *req.Lng, Lat: *req.Lat}
	if _, err := h.Run.AddPoint(r.Context(), target); err != nil {
		writeRunError(w, r, "add point", err)
		return
	}

	res, err := h.runResponse(r.Context())
	if err != nil {
		writeRunError(w, r, "get run", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RunHandler) RemoveLast(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodDelete) {
		return
	}

	removal, err := h.Run.RemoveLast(r.Context())
	if err != nil {
		writeRunError(w, r, "remove last", err)
		return
	}

	run, err := h.runResponse(r.Context())
	if err != nil {
		writeRunError(w, r, "get run", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.RemoveLastResponse{Removed: removal.Kind.String(), Run: run})
}

func (h *RunHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	name, body, err := h.Session.ExportRun()
	if err != nil {
		writeRunError(w, r, "export run", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("write export failed: %v", err)
	}
}

func (h *RunHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	defer r.Body.Close()

	if err := h.Session.ImportRun(r.Context(), r.Body); err != nil {
		writeRunError(w, r, "import run", err)
		return
	}

	res, err := h.runResponse(r.Context())
	if err != nil {
		writeRunError(w, r, "get run", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RunHandler) ListLayers(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.Layers.FeatureCollection())
}

func (h *RunHandler) StyleReload(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	h.Run.StyleReload()
	writeJSON(w, r, http.StatusOK, h.Layers.FeatureCollection())
}

func (h *RunHandler) runResponse(ctx context.Context) (dto.RunResponse, error) {
	doc, err := h.Run.Document()
	if err != nil {
		return dto.RunResponse{}, err
	}

	metric, err := h.Prefs.GetUseMetric(ctx)
	if err != nil {
		log.Printf("read useMetric failed, using default: %v", err)
	}

	snap := h.Run.Snapshot()
	fd := domain.FormatDistance(snap.Distance, metric)

	return dto.RunResponse{
		State:          snap.State.String(),
		DistanceMeters: snap.Distance,
		Formatted:      dto.FormattedDistanceResponse{Distance: fd.Rounded, Units: fd.Units},
		FollowRoads:    snap.FollowRoads,
		Document:       doc,
	}, nil
}
