package filter

import (
	"errors"
	"strings"
)

// Region is an administrative region name as the backend expects it.
// The zero value means every region.
type Region string

const RegionAll Region = ""

var regions = []Region{
	RegionAll,
	"서울특별시",
	"경기도",
	"인천광역시",
	"강원특별자치도",
	"충청남도",
	"충청북도",
	"대전광역시",
	"세종특별자치시",
	"전북특별자치도",
	"전라남도",
	"광주광역시",
	"경상북도",
	"경상남도",
	"대구광역시",
	"울산광역시",
	"부산광역시",
	"제주특별자치도",
}

var ErrUnknownRegion = errors.New("filter: unknown region")

// Regions lists the selectable regions in display order, "all" first.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// ParseRegion accepts a region name, or "" / "전체" for all regions.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == "전체" {
		return RegionAll, nil
	}
	for _, r := range regions {
		if string(r) == s {
			return r, nil
		}
	}
	return RegionAll, ErrUnknownRegion
}

// Label is the display name; the empty region reads as "전체".
func (r Region) Label() string {
	if r == RegionAll {
		return "전체"
	}
	return string(r)
}
