package api

import (
	"context"
	"net/http"
	"net/url"

	"auctionmap/internal/models"
)

// ListSavedItems returns the listings bookmarked by the session user.
func (c *Client) ListSavedItems(ctx context.Context) ([]models.Listing, error) {
	var items []models.Listing
	err := c.do(ctx, call{
		op:        "list saved items",
		method:    http.MethodGet,
		path:      "/saved-items",
		protected: true,
		fallback:  MsgSavedItems,
	}, &items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Listing{}
	}
	return items, nil
}

// AddSavedItem bookmarks id for the session user.
func (c *Client) AddSavedItem(ctx context.Context, id models.ListingID) error {
	return c.do(ctx, call{
		op:        "add saved item",
		method:    http.MethodPost,
		path:      "/saved-items/" + url.PathEscape(string(id)),
		protected: true,
		fallback:  "찜하기에 실패했습니다.",
	}, nil)
}

// DeleteSavedItem removes the bookmark on id.
func (c *Client) DeleteSavedItem(ctx context.Context, id models.ListingID) error {
	return c.do(ctx, call{
		op:        "delete saved item",
		method:    http.MethodDelete,
		path:      "/saved-items/" + url.PathEscape(string(id)),
		protected: true,
		fallback:  "찜 취소에 실패했습니다.",
	}, nil)
}
