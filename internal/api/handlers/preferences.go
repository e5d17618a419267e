package handlers

import (
	"context"
	"errors"
	"net/http"
	"runmap-service/internal/api/dto"
	"runmap-service/internal/services"
)

// PreferencesHandler reads and updates user preferences. The followRoads
// toggle goes through the run controller so new points use it at once.
type PreferencesHandler struct {
	Prefs *services.Preferences
	Run   *services.RunController
}

func (h *PreferencesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPut) {
		return
	}

	if r.Method == http.MethodPut {
		var req dto.UpdatePreferencesRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.update(r.Context(), req); err != nil {
			if errors.Is(err, services.ErrUnknownMapStyle) {
				writeError(w, r, http.StatusBadRequest, "unknown map_style")
				return
			}
			writeRunError(w, r, "update preferences", err)
			return
		}
	}

	res, err := h.read(r.Context())
	if err != nil {
		writeRunError(w, r, "read preferences", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *PreferencesHandler) update(ctx context.Context, req dto.UpdatePreferencesRequest) error {
	if req.FollowRoads != nil {
		if err := h.Run.SetFollowRoads(ctx, *req.FollowRoads); err != nil {
			return err
		}
	}
	if req.MapStyle != nil {
		if err := h.Prefs.SaveMapStyle(ctx, *req.MapStyle); err != nil {
			return err
		}
	}
	if req.UseMetric != nil {
		if err := h.Prefs.SaveUseMetric(ctx, *req.UseMetric); err != nil {
			return err
		}
	}
	if req.Focus != nil {
		f := services.Focus{Lng: req.Focus.Lng, Lat: req.Focus.Lat, Zoom: req.Focus.Zoom}
		if err := h.Prefs.SaveFocus(ctx, f); err != nil {
			return err
		}
	}
	if req.HasAcknowledgedHelp != nil {
		if err := h.Prefs.SaveHasAcknowledgedHelp(ctx, *req.HasAcknowledgedHelp); err != nil {
			return err
		}
	}
	return nil
}

func (h *PreferencesHandler) read(ctx context.Context) (dto.PreferencesResponse, error) {
	metric, err := h.Prefs.GetUseMetric(ctx)
	if err != nil {
		return dto.PreferencesResponse{}, err
	}
	style, err := h.Prefs.GetMapStyle(ctx)
	if err != nil {
		return dto.PreferencesResponse{}, err
	}
	focus, err := h.Prefs.GetFocus(ctx)
	if err != nil {
		return dto.PreferencesResponse{}, err
	}
	help, err := h.Prefs.GetHasAcknowledgedHelp(ctx)
	if err != nil {
		return dto.PreferencesResponse{}, err
	}

	return dto.PreferencesResponse{
		FollowRoads:         h.Run.FollowRoads(),
		UseMetric:           metric,
		MapStyle:            style,
		Focus:               dto.FocusBody{Lng: focus.Lng, Lat: focus.Lat, Zoom: focus.Zoom},
		HasAcknowledgedHelp: help,
	}, nil
}
