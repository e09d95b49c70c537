package molit

import (
	"context"
	"log/slog"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/observability/metrics"
)

// Source adapts the client into the deal service's transaction source: it
// fetches one monthly batch and normalizes the raw items into canonical
// records. Malformed items are dropped one by one; a dropped item never
// aborts the rest of the batch.
type Source struct {
	client *Client
}

// NewSource creates a source backed by the given client.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// FetchMonth retrieves and normalizes one (kind, district code, month) batch.
func (s *Source) FetchMonth(ctx context.Context, kind entity.Kind, lawdCode, yearMonth string) ([]*entity.TransactionRecord, error) {
	raw, err := s.client.FetchMonth(ctx, kind, lawdCode, yearMonth)
	if err != nil {
		return nil, err
	}

	records := make([]*entity.TransactionRecord, 0, len(raw))
	for _, item := range raw {
		rec, err := Normalize(item, kind)
		if err != nil {
			metrics.RecordDropped(string(kind))
			slog.Debug("dropping malformed transaction item",
				slog.String("kind", string(kind)),
				slog.String("year_month", yearMonth),
				slog.Any("error", err))
			continue
		}
		records = append(records, rec)
	}

	metrics.RecordNormalized(string(kind), len(records))
	return records, nil
}
