package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ListingID is the auction item key (cltrNo). The backend sends it either as
// a JSON string or a number; both decode to the same string form.
type ListingID string

func (id *ListingID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ListingID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("models: invalid listing id %s", data)
	}
	*id = ListingID(n.String())
	return nil
}

// Listing is a single auctioned item as returned by the item query API.
type Listing struct {
	ID           ListingID `json:"cltrNo"`
	Name         string    `json:"cltrNm"`
	CategoryPath string    `json:"ctgrFullNm"`
	Address      string    `json:"clnLdnmAdrs,omitempty"`
	MinBidPrice  *float64  `json:"minBidPrc"`
	AppraisalAvg *float64  `json:"apslAsesAvgAmt"`
	BidOpensAt   DateTime  `json:"pbctBegnDtm"`
	BidClosesAt  DateTime  `json:"pbctClsDtm"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
}

// HasCoordinates reports whether the listing can be placed on the map.
// Zero is treated the same as a missing coordinate.
func (l Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil && *l.Latitude != 0 && *l.Longitude != 0
}

// Point returns the listing position. Callers check HasCoordinates first.
func (l Listing) Point() GeoPoint {
	if !l.HasCoordinates() {
		return GeoPoint{}
	}
	return GeoPoint{Lat: *l.Latitude, Lng: *l.Longitude}
}

// GeoPoint is a WGS84 coordinate in the order the map SDK expects.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PageInfo is the pagination metadata of an item query.
type PageInfo struct {
	TotalCount  int `json:"totalCount"`
	TotalPage   int `json:"totalPage"`
	CurrentPage int `json:"currentPage"`
}

// ListingPage is one page of the item query response.
type ListingPage struct {
	Data     []Listing `json:"data"`
	PageInfo PageInfo  `json:"pageInfo"`
}

// DateTime decodes the timestamp formats the auction backend emits. The zero
// value encodes back to null.
type DateTime struct {
	time.Time
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"20060102150405",
	"2006-01-02",
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("models: invalid datetime %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("models: unsupported datetime %q", s)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02T15:04:05"))
}
