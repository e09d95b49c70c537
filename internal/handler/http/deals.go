package http

import (
	"errors"
	"net/http"
	"strings"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/handler/http/respond"
	"estate-watch/internal/links"
	"estate-watch/internal/usecase/deals"
	watchlistuc "estate-watch/internal/usecase/watchlist"
)

// mergedRowDTO is one row of the merged transaction view.
type mergedRowDTO struct {
	District      string   `json:"district"`
	AssetName     string   `json:"asset_name"`
	ContractDate  string   `json:"contract_date"`
	AreaM2        *float64 `json:"area_m2"`
	Price         *int64   `json:"price"`
	IsPlaceholder bool     `json:"is_placeholder"`
	Links         linksDTO `json:"links"`
}

type linksDTO struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// dealsResponse is the merged view payload. KeyConfigured is false when the
// transaction API credential is missing; the rows are then empty and the
// client renders a setup hint instead of an error.
type dealsResponse struct {
	KeyConfigured bool           `json:"key_configured"`
	Districts     []string       `json:"districts"`
	Rows          []mergedRowDTO `json:"rows"`
}

// DealsHandler serves the merged transaction views.
type DealsHandler struct {
	deals            *deals.Service
	watchlist        *watchlistuc.Service
	links            *links.Synthesizer
	region           string
	defaultDistricts []string
}

// NewDealsHandler creates a deals handler scoped to the active region.
func NewDealsHandler(dealsSvc *deals.Service, watchlistSvc *watchlistuc.Service, synthesizer *links.Synthesizer, region string, defaultDistricts []string) *DealsHandler {
	return &DealsHandler{
		deals:            dealsSvc,
		watchlist:        watchlistSvc,
		links:            synthesizer,
		region:           region,
		defaultDistricts: defaultDistricts,
	}
}

// Apartments handles GET /api/v1/deals/apartments.
func (h *DealsHandler) Apartments(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, entity.KindApartment)
}

// Land handles GET /api/v1/deals/land.
func (h *DealsHandler) Land(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, entity.KindLand)
}

func (h *DealsHandler) serve(w http.ResponseWriter, r *http.Request, kind entity.Kind) {
	districts := h.districtsParam(r)

	watched, err := h.watchlist.List(r.Context())
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	watched = h.regionEntries(watched)

	rows, err := h.deals.MergedView(r.Context(), kind, districts, watched)
	if err != nil {
		if errors.Is(err, entity.ErrKeyRequired) {
			respond.JSON(w, http.StatusOK, dealsResponse{
				KeyConfigured: false,
				Districts:     districts,
				Rows:          []mergedRowDTO{},
			})
			return
		}
		respond.DomainError(w, err)
		return
	}

	dto := make([]mergedRowDTO, 0, len(rows))
	for _, row := range rows {
		pair := h.links.For(kind, row.District, row.AssetName)
		dto = append(dto, mergedRowDTO{
			District:      row.District,
			AssetName:     row.AssetName,
			ContractDate:  row.DateLabel(),
			AreaM2:        row.AreaM2,
			Price:         row.Price,
			IsPlaceholder: row.IsPlaceholder(),
			Links:         linksDTO{Primary: pair.Primary, Secondary: pair.Secondary},
		})
	}

	respond.JSON(w, http.StatusOK, dealsResponse{
		KeyConfigured: true,
		Districts:     districts,
		Rows:          dto,
	})
}

// regionEntries drops watchlist entries belonging to other regions. District
// names repeat across regions, so district filtering alone is not enough.
// Entries without a region predate region scoping and are kept.
func (h *DealsHandler) regionEntries(entries []entity.WatchlistEntry) []entity.WatchlistEntry {
	scoped := make([]entity.WatchlistEntry, 0, len(entries))
	for _, e := range entries {
		if e.Region == "" || e.Region == h.region {
			scoped = append(scoped, e)
		}
	}
	return scoped
}

// districtsParam parses the comma-separated districts query parameter,
// falling back to the configured default selection.
func (h *DealsHandler) districtsParam(r *http.Request) []string {
	raw := r.URL.Query().Get("districts")
	if raw == "" {
		return h.defaultDistricts
	}

	var districts []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			districts = append(districts, d)
		}
	}
	if len(districts) == 0 {
		return h.defaultDistricts
	}
	return districts
}
