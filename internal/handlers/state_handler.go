package handlers

import (
	"net/http"

	"auctionmap/internal/detail"
	"auctionmap/internal/filter"
	"auctionmap/internal/listing"
	"auctionmap/internal/mapview"
	"auctionmap/internal/models"
	"auctionmap/internal/saved"
	"auctionmap/internal/session"
)

// StateHandler exposes a read-only snapshot of every store to the view.
type StateHandler struct {
	Filter  *filter.Controller
	Listing *listing.Coordinator
	Saved   *saved.Store
	Session *session.Store
	Detail  *detail.Loader
	MapKey  string
}

type stateResponse struct {
	Draft     criteriaResponse   `json:"draft"`
	Committed committedResponse  `json:"committed"`
	Listing   listing.State      `json:"listing"`
	SavedIDs  []models.ListingID `json:"savedIds"`
	Session   sessionResponse    `json:"session"`
	Detail    detail.State       `json:"detail"`
	Map       mapview.View       `json:"map"`
}

func (h *StateHandler) mapView(st listing.State) mapview.View {
	return mapview.Build(st.Items, st.Center, h.MapKey, h.Saved.Contains)
}

func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	st := h.Listing.State()
	writeJSON(w, http.StatusOK, stateResponse{
		Draft:     toCriteriaResponse(h.Filter.Draft().Criteria),
		Committed: toCommittedResponse(h.Filter.Committed()),
		Listing:   st,
		SavedIDs:  h.Saved.IDs(),
		Session:   describeSession(h.Session, ""),
		Detail:    h.Detail.State(),
		Map:       h.mapView(st),
	})
}

func (h *StateHandler) Map(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mapView(h.Listing.State()))
}

func (h *StateHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
