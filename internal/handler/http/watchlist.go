package http

import (
	"encoding/json"
	"net/http"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/handler/http/respond"
	watchlistuc "estate-watch/internal/usecase/watchlist"
)

// watchlistEntryDTO is one tracked property in requests and responses.
type watchlistEntryDTO struct {
	Region    string `json:"region,omitempty"`
	District  string `json:"district"`
	AssetName string `json:"asset_name"`
}

// addWatchlistResponse reports the stored entry. When the entered name was
// substituted by a resolved one, ResolvedFrom carries the original input.
type addWatchlistResponse struct {
	Entry        watchlistEntryDTO `json:"entry"`
	Resolved     bool              `json:"resolved"`
	ResolvedFrom string            `json:"resolved_from,omitempty"`
}

// WatchlistHandler serves watchlist management endpoints.
type WatchlistHandler struct {
	watchlist *watchlistuc.Service
}

// NewWatchlistHandler creates a watchlist handler.
func NewWatchlistHandler(watchlistSvc *watchlistuc.Service) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlistSvc}
}

// List handles GET /api/v1/watchlist.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.watchlist.List(r.Context())
	if err != nil {
		respond.DomainError(w, err)
		return
	}

	dto := make([]watchlistEntryDTO, 0, len(entries))
	for _, e := range entries {
		dto = append(dto, entryDTO(e))
	}
	respond.JSON(w, http.StatusOK, map[string][]watchlistEntryDTO{"entries": dto})
}

// Add handles POST /api/v1/watchlist.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	result, err := h.watchlist.Add(r.Context(), entry)
	if err != nil {
		respond.DomainError(w, err)
		return
	}

	resp := addWatchlistResponse{
		Entry:    entryDTO(result.Entry),
		Resolved: result.Resolved,
	}
	if result.Resolved {
		resp.ResolvedFrom = result.OriginalName
	}
	respond.JSON(w, http.StatusCreated, resp)
}

// Remove handles DELETE /api/v1/watchlist.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	if err := h.watchlist.Remove(r.Context(), entry); err != nil {
		respond.DomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (entity.WatchlistEntry, bool) {
	var dto watchlistEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return entity.WatchlistEntry{}, false
	}
	return entity.WatchlistEntry{
		Region:    dto.Region,
		District:  dto.District,
		AssetName: dto.AssetName,
	}, true
}

func entryDTO(e entity.WatchlistEntry) watchlistEntryDTO {
	return watchlistEntryDTO{Region: e.Region, District: e.District, AssetName: e.AssetName}
}
