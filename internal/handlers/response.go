package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"auctionmap/internal/api"
	"auctionmap/internal/detail"
	"auctionmap/internal/listing"
	"auctionmap/internal/saved"
)

const (
	msgInvalidRequest = "잘못된 요청입니다."
	msgCancelled      = "새로운 요청으로 대체되었습니다."
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// errorStatus maps store and client errors onto the view API status. Backend
// 4xx answers are passed through; everything else from the backend is a bad
// gateway.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, saved.ErrLoginRequired), errors.Is(err, api.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, saved.ErrMutationInFlight),
		errors.Is(err, saved.ErrSuperseded),
		errors.Is(err, listing.ErrSuperseded),
		errors.Is(err, detail.ErrSuperseded):
		return http.StatusConflict
	}
	if code := api.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}

func errorMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, saved.ErrLoginRequired), errors.Is(err, saved.ErrMutationInFlight):
		return err.Error()
	case errors.Is(err, saved.ErrSuperseded), errors.Is(err, listing.ErrSuperseded), errors.Is(err, detail.ErrSuperseded):
		return msgCancelled
	}
	return api.Message(err, fallback)
}

func writeFailure(w http.ResponseWriter, err error, fallback string) {
	writeError(w, errorStatus(err), errorMessage(err, fallback))
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
