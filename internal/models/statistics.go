package models

// DashboardStats is the statistics summary for the dashboard view.
type DashboardStats struct {
	RegionAvgPrices []RegionAvgPrice `json:"regionAvgPrices"`
	CategoryCounts  []CategoryCount  `json:"categoryCounts"`
}

type RegionAvgPrice struct {
	Region   string  `json:"region"`
	AvgPrice float64 `json:"avgPrice"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
