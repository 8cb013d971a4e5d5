package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"auctionmap/internal/models"
)

const DateLayout = "2006-01-02"

// ItemQuery holds the parameters of GET /items. Unset bounds are omitted.
type ItemQuery struct {
	Page      int
	Size      int
	Keyword   string
	Region    string
	PriceFrom *float64
	PriceTo   *float64
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Values encodes the query string.
func (q ItemQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Region != "" {
		v.Set("region", q.Region)
	}
	if q.PriceFrom != nil {
		v.Set("priceFrom", strconv.FormatFloat(*q.PriceFrom, 'f', -1, 64))
	}
	if q.PriceTo != nil {
		v.Set("priceTo", strconv.FormatFloat(*q.PriceTo, 'f', -1, 64))
	}
	if q.DateFrom != nil {
		v.Set("dateFrom", q.DateFrom.Format(DateLayout))
	}
	if q.DateTo != nil {
		v.Set("dateTo", q.DateTo.Format(DateLayout))
	}
	return v
}

// ListItems fetches one page of listings.
func (c *Client) ListItems(ctx context.Context, q ItemQuery) (models.ListingPage, error) {
	var page models.ListingPage
	err := c.do(ctx, call{
		op:       "list items",
		method:   http.MethodGet,
		path:     "/items",
		query:    q.Values(),
		fallback: MsgGeneric,
	}, &page)
	if page.Data == nil {
		page.Data = []models.Listing{}
	}
	return page, err
}

// GetItem fetches the full detail of one listing.
func (c *Client) GetItem(ctx context.Context, id models.ListingID) (models.ListingDetail, error) {
	var detail models.ListingDetail
	err := c.do(ctx, call{
		op:       "get item",
		method:   http.MethodGet,
		path:     "/items/" + url.PathEscape(string(id)),
		fallback: MsgGeneric,
	}, &detail)
	return detail, err
}
