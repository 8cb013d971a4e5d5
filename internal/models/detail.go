package models

// ListingDetail is the full record shown in the detail panel.
type ListingDetail struct {
	MasterInfo   Listing        `json:"masterInfo"`
	BasicInfo    *ContactInfo   `json:"basicInfo,omitempty"`
	FileList     []Attachment   `json:"fileList"`
	PriceHistory []PriceHistory `json:"priceHistory"`
}

// ContactInfo describes the department in charge of the public notice.
type ContactInfo struct {
	Department string `json:"rsbyDept"`
	Person     string `json:"pscgNm"`
	Phone      string `json:"pscgTpno"`
}

type Attachment struct {
	FileName string `json:"atchFileNm"`
}

// PriceHistory is one bidding round of a listing.
type PriceHistory struct {
	HistoryNo   string   `json:"cltrHstrNo"`
	ClosesAt    DateTime `json:"pbctClsDtm"`
	MinBidPrice *float64 `json:"minBidPrc"`
}
