package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *TransactionRecord {
	return &TransactionRecord{
		Kind:         KindApartment,
		ContractDate: time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
		District:     "퇴계동",
		AssetName:    "e편한세상춘천한숲시티",
		AreaM2:       84.97,
		Price:        35000,
	}
}

func TestTransactionRecord_Validate(t *testing.T) {
	require.NoError(t, validRecord().Validate())

	tests := []struct {
		name      string
		mutate    func(*TransactionRecord)
		wantField string
	}{
		{"unknown kind", func(r *TransactionRecord) { r.Kind = "villa" }, "kind"},
		{"empty district", func(r *TransactionRecord) { r.District = "" }, "district"},
		{"empty asset name", func(r *TransactionRecord) { r.AssetName = "" }, "assetName"},
		{"zero date", func(r *TransactionRecord) { r.ContractDate = time.Time{} }, "contractDate"},
		{"zero area", func(r *TransactionRecord) { r.AreaM2 = 0 }, "areaM2"},
		{"negative price", func(r *TransactionRecord) { r.Price = -1 }, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)

			var verr *ValidationError
			require.ErrorAs(t, rec.Validate(), &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestWatchlistEntry_Equal(t *testing.T) {
	a := WatchlistEntry{Region: "춘천", District: "퇴계동", AssetName: "한숲시티"}

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(WatchlistEntry{Region: "춘천", District: "온의동", AssetName: "한숲시티"}))
	assert.False(t, a.Equal(WatchlistEntry{District: "퇴계동", AssetName: "한숲시티"}),
		"region scoping is part of identity")
}

func TestMergedRow_Placeholder(t *testing.T) {
	row := PlaceholderRow("온의동", "푸르지오")

	assert.True(t, row.IsPlaceholder())
	assert.Equal(t, PlaceholderDate, row.DateLabel())
	assert.Nil(t, row.AreaM2)
	assert.Nil(t, row.Price)
}

func TestMergedRow_FromTransaction(t *testing.T) {
	row := RowFromTransaction(validRecord())

	assert.False(t, row.IsPlaceholder())
	assert.Equal(t, "2025-08-14", row.DateLabel())
	require.NotNil(t, row.Price)
	assert.Equal(t, int64(35000), *row.Price)
}

func TestNewsCategory_Valid(t *testing.T) {
	assert.True(t, CategoryRealEstate.Valid())
	assert.True(t, CategoryGeneral.Valid())
	assert.False(t, NewsCategory("sports").Valid())
}

func TestValidationError_Message(t *testing.T) {
	err := error(&ValidationError{Field: "district", Message: "is required"})
	assert.Contains(t, err.Error(), "district")

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
