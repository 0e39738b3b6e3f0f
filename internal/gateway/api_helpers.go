package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/CosmoTheDev/repolens/models"
)

// --- HTTP response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure answers with the status mapped from the error's kind and a
// {"error": message} body.
func writeFailure(w http.ResponseWriter, err error) {
	er := models.AsErrorResult(err)
	writeError(w, statusForKind(er.Kind), er.Message)
}

func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidInput:
		return http.StatusBadRequest
	case models.KindUpstreamNotFound:
		return http.StatusNotFound
	case models.KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	case models.KindDecodeFailure:
		return http.StatusUnprocessableEntity
	case models.KindTransportFailure:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
