package handlers

import (
	"context"
	"net/http"

	"auctionmap/internal/api"
	"auctionmap/internal/models"
)

type StatisticsAPI interface {
	StatisticsSummary(ctx context.Context) (models.DashboardStats, error)
}

type StatisticsHandler struct {
	API StatisticsAPI
}

func (h *StatisticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.API.StatisticsSummary(r.Context())
	if err != nil {
		writeFailure(w, err, api.MsgGeneric)
		return
	}
	if stats.RegionAvgPrices == nil {
		stats.RegionAvgPrices = []models.RegionAvgPrice{}
	}
	if stats.CategoryCounts == nil {
		stats.CategoryCounts = []models.CategoryCount{}
	}
	writeJSON(w, http.StatusOK, stats)
}
