package mux

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/store"

	"github.com/sirupsen/logrus"
)

var statusOK = map[string]string{
	"status": "OK",
}

func remoteAddr(r *http.Request) string {
	parts := strings.Split(r.RemoteAddr, ":")
	if len(parts) == 1 {
		return parts[0]
	}

	return strings.Join(parts[0:len(parts)-1], ":")
}

func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if ct := r.Header.Get("Content-Type"); ct != "application/json" && ct != "text/json" {
		writeJSONError(w, http.StatusUnsupportedMediaType, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string             `json:"message"`
	StatusCode int                `json:"statusCode"`
	Kind       playable.ErrorKind `json:"kind,omitempty"`
}

var errNoSession = errors.New("no session found; deal to begin")

// writeIntentError maps an error from a session intent to a response
// Rule errors are the player's fault, anything else is ours.
func writeIntentError(w http.ResponseWriter, err error) {
	var ruleErr *playable.RuleError
	switch {
	case errors.As(err, &ruleErr):
		statusCode := statusCodeForKind(ruleErr.Kind)
		writeJSON(w, statusCode, errorResponse{
			Message:    ruleErr.Error(),
			StatusCode: statusCode,
			Kind:       ruleErr.Kind,
		})
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, errNoSession)
	default:
		writeJSONError(w, http.StatusInternalServerError, err)
	}
}

func statusCodeForKind(kind playable.ErrorKind) int {
	switch kind {
	case playable.KindIllegalPhase, playable.KindNoActiveESP:
		return http.StatusConflict
	case playable.KindDeadlineExpired:
		return http.StatusGone
	default:
		return http.StatusBadRequest
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	var msg string

	if statusCode < 500 && err != nil {
		msg = err.Error()
	} else {
		msg = http.StatusText(statusCode)
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}
