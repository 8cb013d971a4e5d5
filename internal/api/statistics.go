package api

import (
	"context"
	"net/http"

	"auctionmap/internal/models"
)

func (c *Client) StatisticsSummary(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.do(ctx, call{
		op:       "statistics summary",
		method:   http.MethodGet,
		path:     "/statistics/summary",
		fallback: MsgGeneric,
	}, &stats)
	return stats, err
}
