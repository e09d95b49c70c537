package entity

// WatchlistEntry is a user-tracked (district, asset name) pair. Region is the
// optional region identifier used when more than one region is monitored; it
// is empty in single-region deployments.
//
// Entries are persisted externally and treated as an immutable snapshot per
// invocation of the merge engine.
type WatchlistEntry struct {
	Region    string
	District  string
	AssetName string
}

// Equal reports whether two entries refer to the same tracked property.
// Matching is exact on (region, district, asset name).
func (e WatchlistEntry) Equal(other WatchlistEntry) bool {
	return e.Region == other.Region &&
		e.District == other.District &&
		e.AssetName == other.AssetName
}

// Validate checks that the entry has the required fields.
func (e WatchlistEntry) Validate() error {
	if e.District == "" {
		return &ValidationError{Field: "district", Message: "is required"}
	}
	if e.AssetName == "" {
		return &ValidationError{Field: "assetName", Message: "is required"}
	}
	return nil
}
