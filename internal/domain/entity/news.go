package entity

import "time"

// NewsCategory selects the keyword profile used when querying the news feed.
type NewsCategory string

const (
	// CategoryRealEstate requires at least one real-estate topic keyword.
	CategoryRealEstate NewsCategory = "real-estate"
	// CategoryGeneral excludes the real-estate keywords so the two
	// categories do not overlap.
	CategoryGeneral NewsCategory = "general"
)

// Valid reports whether the category is one of the known profiles.
func (c NewsCategory) Valid() bool {
	return c == CategoryRealEstate || c == CategoryGeneral
}

// NewsItem is one aggregated news entry. IsToday is derived at aggregation
// time and must not be cached across runs.
type NewsItem struct {
	Title        string
	Link         string
	OriginalLink string
	Source       string
	PublishedAt  time.Time
	IsToday      bool
}
