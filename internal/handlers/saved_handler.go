package handlers

import (
	"net/http"

	"auctionmap/internal/api"
	"auctionmap/internal/models"
	"auctionmap/internal/saved"
)

type SavedHandler struct {
	Saved *saved.Store
}

type toggleResponse struct {
	ID    models.ListingID   `json:"id"`
	Saved bool               `json:"saved"`
	IDs   []models.ListingID `json:"ids"`
}

func (h *SavedHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := models.ListingID(getParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	isSaved, err := h.Saved.Toggle(r.Context(), id)
	if err != nil {
		writeFailure(w, err, "찜 처리에 실패했습니다.")
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{ID: id, Saved: isSaved, IDs: h.Saved.IDs()})
}

// IDs lists the saved ids for the heart icons.
func (h *SavedHandler) IDs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]models.ListingID{"ids": h.Saved.IDs()})
}

// MyPage returns the full saved listings.
func (h *SavedHandler) MyPage(w http.ResponseWriter, r *http.Request) {
	items, err := h.Saved.SavedListings(r.Context())
	if err != nil {
		writeFailure(w, err, api.MsgSavedItems)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Listing{"items": items})
}
