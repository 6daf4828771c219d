package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ajali/core/reports"
	"ajali/core/utils"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps business errors onto HTTP statuses. The caller is
// already authenticated when this runs, so authorization failures are 403.
func respondServiceError(w http.ResponseWriter, logger *utils.Logger, err error) {
	switch {
	case errors.Is(err, reports.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, reports.ErrNotFound):
		writeError(w, http.StatusNotFound, "report not found")
	case errors.Is(err, reports.ErrIllegalTransition), errors.Is(err, reports.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, reports.ErrInvalidTitle),
		errors.Is(err, reports.ErrInvalidDescription),
		errors.Is(err, reports.ErrInvalidType),
		errors.Is(err, reports.ErrMissingLocation),
		errors.Is(err, reports.ErrInvalidMedia):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		if logger != nil {
			logger.Errorf("HANDLER error: %v", err)
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// coordinate accepts a JSON number or a numeric string; mobile clients send
// geolocation values both ways. Anything unparseable is left unset.
type coordinate struct {
	value *float64
}

func (c *coordinate) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	c.value = &f
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
