package http

import (
	"net/http"
	"time"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/handler/http/respond"
	"estate-watch/internal/usecase/news"
)

// newsItemDTO is one aggregated news entry.
type newsItemDTO struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	OriginalLink string `json:"original_link,omitempty"`
	Source       string `json:"source,omitempty"`
	PublishedAt  string `json:"published_at"`
	IsToday      bool   `json:"is_today"`
}

// NewsHandler serves the aggregated news endpoint.
type NewsHandler struct {
	news *news.Service
}

// NewNewsHandler creates a news handler.
func NewNewsHandler(newsSvc *news.Service) *NewsHandler {
	return &NewsHandler{news: newsSvc}
}

// List handles GET /api/v1/news. category selects the keyword profile
// (default real-estate); domain optionally restricts results to one
// publisher.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	category := entity.NewsCategory(r.URL.Query().Get("category"))
	if category == "" {
		category = entity.CategoryRealEstate
	}
	domain := r.URL.Query().Get("domain")

	items, err := h.news.Aggregate(r.Context(), category, domain)
	if err != nil {
		respond.DomainError(w, err)
		return
	}

	dto := make([]newsItemDTO, 0, len(items))
	for _, item := range items {
		dto = append(dto, newsItemDTO{
			Title:        item.Title,
			Link:         item.Link,
			OriginalLink: item.OriginalLink,
			Source:       item.Source,
			PublishedAt:  item.PublishedAt.Format(time.RFC3339),
			IsToday:      item.IsToday,
		})
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"category": string(category),
		"items":    dto,
	})
}
