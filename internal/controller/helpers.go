package controller

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var kindStatus = map[domainErrors.Kind]int{
	domainErrors.KindNotImplemented: http.StatusNotFound,
	domainErrors.KindNotSupported:   http.StatusNotFound,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

// writeError maps connector error kinds onto HTTP statuses. Anything
// without a kind, or with a kind that is not the caller's fault, is a 500
// and its text is not echoed back.
func writeError(w http.ResponseWriter, err error) {
	kind, ok := domainErrors.KindOf(err)
	if ok {
		if status, found := kindStatus[kind]; found {
			writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: string(kind)})
			return
		}
	}

	log.Error().Err(err).Strs("attachments", domainErrors.Attachments(err)).Msg("unhandled error in handler")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal_error"})
}
