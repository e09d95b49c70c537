// Package links synthesizes outbound listing-search URLs for merged view
// rows. No upstream API exposes stable per-property pages, so every link is
// a search URL built from the row's own fields.
package links

import (
	"net/url"

	"estate-watch/internal/domain/entity"
)

const (
	kbSearchURL       = "https://kbland.kr/search"
	naverLandURL      = "https://new.land.naver.com/search"
	naverMapSearchURL = "https://map.naver.com/p/search/"
)

// Pair holds the two outbound links for one row, in display order.
type Pair struct {
	Primary   string
	Secondary string
}

// Synthesizer builds link pairs scoped to one region.
type Synthesizer struct {
	region string
}

// New creates a synthesizer for the given region name.
func New(region string) *Synthesizer {
	return &Synthesizer{region: region}
}

// For returns the link pair for a row. The query carries the region, the
// district and the row's name field, which holds the property name for
// apartments and the land-use category for land. Placeholder rows fall back
// to a locality-wide search so the links stay useful.
func (s *Synthesizer) For(kind entity.Kind, district, assetName string) Pair {
	query := s.region + " " + district
	if assetName != "" && assetName != entity.PlaceholderDate {
		query += " " + assetName
	}

	if kind == entity.KindLand {
		return Pair{
			Primary:   naverMapSearchURL + url.PathEscape(query),
			Secondary: naverLandURL + "?sk=" + url.QueryEscape(query),
		}
	}

	return Pair{
		Primary:   kbSearchURL + "?q=" + url.QueryEscape(query),
		Secondary: naverLandURL + "?sk=" + url.QueryEscape(query),
	}
}
