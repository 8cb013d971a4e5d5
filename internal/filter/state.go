package filter

import "time"

// Criteria are the search fields edited in the form and copied on commit.
type Criteria struct {
	Keyword   string     `json:"keyword"`
	PriceFrom *float64   `json:"priceFrom"`
	PriceTo   *float64   `json:"priceTo"`
	DateFrom  *time.Time `json:"dateFrom"`
	DateTo    *time.Time `json:"dateTo"`
}

// Draft is what the user is typing. It never triggers a fetch.
type Draft struct {
	Criteria
}

// Committed is the state the listing fetch is driven by.
type Committed struct {
	Criteria
	Region Region `json:"region"`
	Page   int    `json:"page"`
}

// InitialCommitted is the state before any search: all regions, page 1.
func InitialCommitted() Committed {
	return Committed{Page: 1}
}

// Commit copies the draft criteria onto c and restarts at page 1. Region is
// not part of the draft and is kept.
func (d Draft) Commit(c Committed) Committed {
	return Committed{
		Criteria: d.Criteria.clone(),
		Region:   c.Region,
		Page:     1,
	}
}

// WithRegion returns c with region r and page reset to 1.
func (c Committed) WithRegion(r Region) Committed {
	c.Criteria = c.Criteria.clone()
	c.Region = r
	c.Page = 1
	return c
}

// WithPage returns c at page n. No range check is done.
func (c Committed) WithPage(n int) Committed {
	c.Criteria = c.Criteria.clone()
	c.Page = n
	return c
}

func (c Criteria) clone() Criteria {
	return Criteria{
		Keyword:   c.Keyword,
		PriceFrom: cloneFloat(c.PriceFrom),
		PriceTo:   cloneFloat(c.PriceTo),
		DateFrom:  cloneTime(c.DateFrom),
		DateTo:    cloneTime(c.DateTo),
	}
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
