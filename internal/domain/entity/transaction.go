// Package entity defines the core domain entities and validation logic for the
// application. It contains the canonical transaction record, watchlist entry,
// merged row, and news item types along with their domain-specific errors.
package entity

import "time"

// Kind identifies which transaction source a record came from.
type Kind string

const (
	// KindApartment marks apartment sale records.
	KindApartment Kind = "apartment"
	// KindLand marks land sale records. For land records the shared schema's
	// "apartment name" slot carries the land-use category (지목) instead.
	KindLand Kind = "land"
)

// Valid reports whether the kind is one of the known source kinds.
func (k Kind) Valid() bool {
	return k == KindApartment || k == KindLand
}

// TransactionRecord is the canonical, source-agnostic shape of one real
// transaction. Records are produced exclusively by the normalizer; no other
// component constructs them directly.
type TransactionRecord struct {
	Kind         Kind
	ContractDate time.Time
	District     string
	// AssetName holds the apartment name for apartment records and the
	// land-use category label for land records.
	AssetName string
	// AreaM2 is the transacted area in square meters.
	AreaM2 float64
	// Price is the reported amount in 10,000-won units.
	Price int64
}

// Validate checks the canonical record invariants: positive price and area,
// non-empty district and asset name, and a set contract date.
func (r *TransactionRecord) Validate() error {
	if !r.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: "unknown source kind"}
	}
	if r.District == "" {
		return &ValidationError{Field: "district", Message: "is required"}
	}
	if r.AssetName == "" {
		return &ValidationError{Field: "assetName", Message: "is required"}
	}
	if r.ContractDate.IsZero() {
		return &ValidationError{Field: "contractDate", Message: "is required"}
	}
	if r.AreaM2 <= 0 {
		return &ValidationError{Field: "areaM2", Message: "must be positive"}
	}
	if r.Price <= 0 {
		return &ValidationError{Field: "price", Message: "must be positive"}
	}
	return nil
}
