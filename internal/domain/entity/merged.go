package entity

import "time"

// PlaceholderDate is the display label for rows without a contract date.
const PlaceholderDate = "-"

// MergedRow is one row of the reconciled view: either a real transaction or a
// placeholder for a watchlist entry with no transaction in the lookback
// window. Placeholder rows carry nil date, area and price.
type MergedRow struct {
	District     string
	AssetName    string
	ContractDate *time.Time
	AreaM2       *float64
	Price        *int64
}

// RowFromTransaction converts a canonical transaction into a merged row.
func RowFromTransaction(r *TransactionRecord) MergedRow {
	date := r.ContractDate
	area := r.AreaM2
	price := r.Price
	return MergedRow{
		District:     r.District,
		AssetName:    r.AssetName,
		ContractDate: &date,
		AreaM2:       &area,
		Price:        &price,
	}
}

// PlaceholderRow builds the synthetic row representing a watchlist entry with
// no matching transaction.
func PlaceholderRow(district, assetName string) MergedRow {
	return MergedRow{District: district, AssetName: assetName}
}

// IsPlaceholder reports whether the row is a watchlist placeholder.
func (m MergedRow) IsPlaceholder() bool {
	return m.ContractDate == nil
}

// DateLabel returns the contract date formatted as YYYY-MM-DD, or "-" for
// placeholder rows.
func (m MergedRow) DateLabel() string {
	if m.ContractDate == nil {
		return PlaceholderDate
	}
	return m.ContractDate.Format("2006-01-02")
}
