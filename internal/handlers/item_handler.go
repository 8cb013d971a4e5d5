package handlers

import (
	"net/http"

	"auctionmap/internal/detail"
	"auctionmap/internal/models"
)

type ItemHandler struct {
	Detail *detail.Loader
}

// Select opens the detail panel for :id.
func (h *ItemHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := models.ListingID(getParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	st, err := h.Detail.Select(r.Context(), id)
	if err != nil {
		writeFailure(w, err, detail.AlertMessage)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *ItemHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.Detail.Close()
	writeJSON(w, http.StatusOK, h.Detail.State())
}

func (h *ItemHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Detail.State())
}
