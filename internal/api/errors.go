package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/store"
)

// errBadRequest marks malformed query parameters.
var errBadRequest = eris.New("api: bad request")

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// statusFor maps an error to its HTTP status and a stable kind label.
func statusFor(err error) (int, string) {
	switch analysis.Kind(err) {
	case analysis.ErrCountryNotFound:
		return http.StatusNotFound, "country_not_found"
	case analysis.ErrMissingColumn:
		return http.StatusBadRequest, "missing_column"
	case analysis.ErrInvalidArgument:
		return http.StatusBadRequest, "invalid_argument"
	case analysis.ErrEmptySeries:
		return http.StatusUnprocessableEntity, "empty_series"
	case analysis.ErrInsufficientData:
		return http.StatusUnprocessableEntity, "insufficient_data"
	case analysis.ErrDegenerateInput:
		return http.StatusUnprocessableEntity, "degenerate_input"
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("api: request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	writeJSONType(w, status, "application/json", v)
}

func writeJSONType(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}
