// Package merge reconciles canonical transaction records with the user
// watchlist, producing one ordered view per source kind. Watchlist entries
// with no transaction in the lookback window still appear, as placeholder
// rows sorted after every dated row.
package merge

import (
	"sort"
	"strings"

	"estate-watch/internal/domain/entity"
)

// Rows merges transaction records with the watchlist snapshot. Both inputs
// are expected to be pre-filtered to the caller's selected districts (and,
// where regions exist, to the active region).
//
// Every watchlist entry appears exactly once in the output: as its real
// transaction rows when at least one transacted asset name in the same
// district contains the stored name, or as exactly one placeholder row
// otherwise. The containment check is deliberately loose; a short stored
// name can match a longer unrelated one, and that behavior is kept as is.
func Rows(records []*entity.TransactionRecord, watchlist []entity.WatchlistEntry) []entity.MergedRow {
	rows := make([]entity.MergedRow, 0, len(records)+len(watchlist))
	for _, r := range records {
		rows = append(rows, entity.RowFromTransaction(r))
	}

	tradedByDistrict := make(map[string][]string)
	for _, r := range records {
		tradedByDistrict[r.District] = append(tradedByDistrict[r.District], r.AssetName)
	}

	seen := make(map[entity.WatchlistEntry]bool, len(watchlist))
	for _, e := range watchlist {
		if seen[e] {
			continue
		}
		seen[e] = true

		if !traded(e, tradedByDistrict[e.District]) {
			rows = append(rows, entity.PlaceholderRow(e.District, e.AssetName))
		}
	}

	sortRows(rows)
	return rows
}

// traded reports whether the entry's stored name is contained in any
// transacted asset name for its district.
func traded(e entity.WatchlistEntry, tradedNames []string) bool {
	for _, name := range tradedNames {
		if strings.Contains(name, e.AssetName) {
			return true
		}
	}
	return false
}

// sortRows orders rows by contract date descending with placeholders after
// every dated row, district name ascending as the tie-break.
func sortRows(rows []entity.MergedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.IsPlaceholder() && b.IsPlaceholder():
			return a.District < b.District
		case a.IsPlaceholder():
			return false
		case b.IsPlaceholder():
			return true
		}
		if !a.ContractDate.Equal(*b.ContractDate) {
			return a.ContractDate.After(*b.ContractDate)
		}
		return a.District < b.District
	})
}
