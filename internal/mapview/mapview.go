// Package mapview derives the marker layer from the current listing page.
package mapview

import "auctionmap/internal/models"

// Marker is one pin on the map.
type Marker struct {
	ID       models.ListingID `json:"id"`
	Title    string           `json:"title"`
	Position models.GeoPoint  `json:"position"`
	MinBid   *float64         `json:"minBidPrice,omitempty"`
	Saved    bool             `json:"saved"`
}

// View is everything the map SDK needs to draw.
type View struct {
	AppKey  string          `json:"appKey,omitempty"`
	Center  models.GeoPoint `json:"center"`
	Markers []Marker        `json:"markers"`
}

// Build places one marker per listing that has coordinates. saved may be
// nil.
func Build(items []models.Listing, center models.GeoPoint, appKey string, saved func(models.ListingID) bool) View {
	v := View{AppKey: appKey, Center: center, Markers: make([]Marker, 0, len(items))}
	for _, item := range items {
		if !item.HasCoordinates() {
			continue
		}
		m := Marker{
			ID:       item.ID,
			Title:    item.Name,
			Position: item.Point(),
			MinBid:   item.MinBidPrice,
		}
		if saved != nil {
			m.Saved = saved(item.ID)
		}
		v.Markers = append(v.Markers, m)
	}
	return v
}
