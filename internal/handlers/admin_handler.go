package handlers

import (
	"context"
	"net/http"

	"auctionmap/internal/api"
	"auctionmap/internal/models"
)

type AdminAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	RunBatch(ctx context.Context) (string, error)
}

// AdminHandler serves the admin page. Routes are expected behind the admin
// guard.
type AdminHandler struct {
	API AdminAPI
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.API.ListUsers(r.Context())
	if err != nil {
		writeFailure(w, err, api.MsgUsers)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// RunBatch triggers the manual collection batch. The result is reported the
// way the admin page prints it: "성공: ..." or "실패: ...".
func (h *AdminHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.API.RunBatch(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), "실패: "+errorMessage(err, api.MsgBatch))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "성공: " + result})
}
