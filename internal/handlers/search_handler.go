package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"auctionmap/internal/filter"
	"auctionmap/internal/listing"
)

// loadWait bounds how long a search request waits for the page it
// triggered before answering with the loading state.
const loadWait = 15 * time.Second

type SearchHandler struct {
	Filter  *filter.Controller
	Listing *listing.Coordinator
}

// draftRequest mirrors the search form; every field is a raw input value.
type draftRequest struct {
	Keyword   string `json:"keyword"`
	PriceFrom string `json:"priceFrom"`
	PriceTo   string `json:"priceTo"`
	DateFrom  string `json:"dateFrom"`
	DateTo    string `json:"dateTo"`
}

type criteriaResponse struct {
	Keyword   string   `json:"keyword"`
	PriceFrom *float64 `json:"priceFrom"`
	PriceTo   *float64 `json:"priceTo"`
	DateFrom  string   `json:"dateFrom"`
	DateTo    string   `json:"dateTo"`
}

type committedResponse struct {
	criteriaResponse
	Region      string `json:"region"`
	RegionLabel string `json:"regionLabel"`
	Page        int    `json:"page"`
}

type searchResponse struct {
	Draft     criteriaResponse  `json:"draft"`
	Committed committedResponse `json:"committed"`
	Listing   listing.State     `json:"listing"`
}

func toCriteriaResponse(c filter.Criteria) criteriaResponse {
	return criteriaResponse{
		Keyword:   c.Keyword,
		PriceFrom: c.PriceFrom,
		PriceTo:   c.PriceTo,
		DateFrom:  formatOptionalDate(c.DateFrom),
		DateTo:    formatOptionalDate(c.DateTo),
	}
}

func toCommittedResponse(c filter.Committed) committedResponse {
	return committedResponse{
		criteriaResponse: toCriteriaResponse(c.Criteria),
		Region:           string(c.Region),
		RegionLabel:      c.Region.Label(),
		Page:             c.Page,
	}
}

func (r draftRequest) toDraft() (filter.Draft, error) {
	var d filter.Draft
	var err error
	d.Keyword = r.Keyword
	if d.PriceFrom, err = parseOptionalFloat(r.PriceFrom); err != nil {
		return filter.Draft{}, errors.New("priceFrom must be a number")
	}
	if d.PriceTo, err = parseOptionalFloat(r.PriceTo); err != nil {
		return filter.Draft{}, errors.New("priceTo must be a number")
	}
	if d.DateFrom, err = parseOptionalDate(r.DateFrom); err != nil {
		return filter.Draft{}, errors.New("dateFrom must be YYYY-MM-DD")
	}
	if d.DateTo, err = parseOptionalDate(r.DateTo); err != nil {
		return filter.Draft{}, errors.New("dateTo must be YYYY-MM-DD")
	}
	return d, nil
}

func (h *SearchHandler) respond(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), loadWait)
	defer cancel()
	_ = h.Listing.Wait(ctx)

	writeJSON(w, http.StatusOK, searchResponse{
		Draft:     toCriteriaResponse(h.Filter.Draft().Criteria),
		Committed: toCommittedResponse(h.Filter.Committed()),
		Listing:   h.Listing.State(),
	})
}

// UpdateDraft replaces the form values without searching.
func (h *SearchHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	d, err := req.toDraft()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.Filter.SetDraft(d)
	writeJSON(w, http.StatusOK, toCriteriaResponse(h.Filter.Draft().Criteria))
}

// Commit runs the search with the current draft. A body, if present,
// replaces the draft first.
func (h *SearchHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	switch err := decodeJSON(r, &req); {
	case errors.Is(err, io.EOF):
	case err != nil:
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	default:
		d, err := req.toDraft()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Filter.SetDraft(d)
	}
	h.Filter.CommitSearch()
	h.respond(w, r)
}

func (h *SearchHandler) SetRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Region string `json:"region"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	region, err := filter.ParseRegion(req.Region)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown region")
		return
	}
	h.Filter.SetRegion(region)
	h.respond(w, r)
}

func (h *SearchHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	h.Filter.GoToPage(req.Page)
	h.respond(w, r)
}

// Regions lists the selectable regions.
func (h *SearchHandler) Regions(w http.ResponseWriter, r *http.Request) {
	type region struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	out := make([]region, 0, 18)
	for _, rg := range filter.Regions() {
		out = append(out, region{Value: string(rg), Label: rg.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}
