package molit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"estate-watch/internal/domain/entity"
)

// RawItem is one transaction item as delivered by the endpoint, reduced to
// plain strings. Both payload generations decode into this shape before
// normalization.
type RawItem struct {
	Year  string
	Month string
	Day   string
	// Date optionally carries a combined date string instead of the
	// separate components, as one source generation delivers it.
	Date string

	District string
	// AptName is the shared schema's "apartment name" slot. For land
	// records it is unused; LandCategory carries the 지목 label instead.
	AptName       string
	ExclusiveArea string
	LandCategory  string
	LandArea      string
	Price         string
}

// Normalize converts a raw item into a canonical transaction record, or
// fails with an error wrapping entity.ErrMalformedRecord when any required
// numeric field is non-numeric or any required text field is missing.
// Callers drop the failing item and continue with the rest of the batch.
//
// Canonical records are produced here and nowhere else.
func Normalize(raw RawItem, kind entity.Kind) (*entity.TransactionRecord, error) {
	date, err := normalizeDate(raw)
	if err != nil {
		return nil, err
	}

	district := strings.TrimSpace(raw.District)
	if district == "" {
		return nil, malformed("district", "missing")
	}

	// Route by source kind, not by field name: the land generation reuses
	// the apartment-name slot for the land-use category.
	var name, areaStr string
	switch kind {
	case entity.KindLand:
		name = strings.TrimSpace(raw.LandCategory)
		areaStr = raw.LandArea
	default:
		name = strings.TrimSpace(raw.AptName)
		areaStr = raw.ExclusiveArea
	}
	if name == "" {
		return nil, malformed("assetName", "missing")
	}

	area, err := strconv.ParseFloat(strings.TrimSpace(areaStr), 64)
	if err != nil || area <= 0 {
		return nil, malformed("area", "not a positive number")
	}

	price, err := parsePrice(raw.Price)
	if err != nil {
		return nil, err
	}

	record := &entity.TransactionRecord{
		Kind:         kind,
		ContractDate: date,
		District:     district,
		AssetName:    name,
		AreaM2:       area,
		Price:        price,
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrMalformedRecord, err)
	}
	return record, nil
}

// normalizeDate builds the canonical calendar date from either the separate
// year/month/day components or the combined string, zero-padding month and
// day to two digits.
func normalizeDate(raw RawItem) (time.Time, error) {
	if raw.Year != "" {
		year, err := strconv.Atoi(strings.TrimSpace(raw.Year))
		if err != nil {
			return time.Time{}, malformed("year", "not numeric")
		}
		month, err := strconv.Atoi(strings.TrimSpace(raw.Month))
		if err != nil {
			return time.Time{}, malformed("month", "not numeric")
		}
		day, err := strconv.Atoi(strings.TrimSpace(raw.Day))
		if err != nil {
			return time.Time{}, malformed("day", "not numeric")
		}
		return parseCanonicalDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
	}

	combined := strings.TrimSpace(raw.Date)
	if combined == "" {
		return time.Time{}, malformed("contractDate", "missing")
	}
	if !strings.Contains(combined, "-") && len(combined) == 8 {
		combined = combined[:4] + "-" + combined[4:6] + "-" + combined[6:]
	}
	// Re-split so single-digit months and days get their zero padding.
	parts := strings.SplitN(combined, "-", 3)
	if len(parts) == 3 {
		y, errY := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		d, errD := strconv.Atoi(parts[2])
		if errY == nil && errM == nil && errD == nil {
			return parseCanonicalDate(fmt.Sprintf("%04d-%02d-%02d", y, m, d))
		}
	}
	return time.Time{}, malformed("contractDate", "unrecognized format")
}

// parseCanonicalDate validates that the canonical string is a real calendar
// date (rejecting month 13, day 32 and similar).
func parseCanonicalDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, malformed("contractDate", "not a valid calendar date")
	}
	return t, nil
}

// parsePrice strips thousands separators and surrounding whitespace before
// integer parsing.
func parsePrice(s string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, malformed("price", "missing")
	}
	price, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || price <= 0 {
		return 0, malformed("price", "not a positive integer")
	}
	return price, nil
}

func malformed(field, reason string) error {
	return fmt.Errorf("%w: field %s %s", entity.ErrMalformedRecord, field, reason)
}
