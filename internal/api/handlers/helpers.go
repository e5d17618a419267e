package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"runmap-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// Non-standard status for a client that went away before the response.
const statusClientClosedRequest = 499

// writeRunError maps run failures onto HTTP statuses. Unknown errors are
// logged and hidden from the client.
func writeRunError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var de *domain.DiscontinuousPathError
	switch {
	case errors.Is(err, context.Canceled):
		writeError(w, r, statusClientClosedRequest, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, domain.ErrRoutingLookupFailed):
		writeError(w, r, http.StatusBadGateway, "an error occurred getting directions")
	case errors.Is(err, domain.ErrMalformedRunDocument):
		writeError(w, r, http.StatusBadRequest, "error loading run")
	case errors.Is(err, domain.ErrRoadFollowingUnavailable):
		writeError(w, r, http.StatusBadRequest, "road following is not available")
	case errors.Is(err, domain.ErrAppendInProgress):
		writeError(w, r, http.StatusConflict, "another change to the run is still in progress")
	case errors.As(err, &de):
		writeError(w, r, http.StatusConflict, de.Error())
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	for _, m := range methods {
		w.Header().Add("Allow", m)
	}
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody reads exactly one JSON object into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
