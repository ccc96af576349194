package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

func ids(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record.ID.String())
	}
	return out
}

func TestDefaultSort_IsQuantityDescend(t *testing.T) {
	assert.Equal(t, SortState{Column: ColumnQuantity, Order: SortDescend}, DefaultSort())
}

func TestRows_QuantitySort(t *testing.T) {
	recs := sampleRecords()

	assert.Equal(t, []string{"2", "3", "1"}, ids(Rows(recs, DefaultSort())))
	assert.Equal(t, []string{"1", "3", "2"}, ids(Rows(recs, SortState{Column: ColumnQuantity, Order: SortAscend})))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Rows(recs, SortState{})), "unsorted keeps server order")
	assert.Equal(t, sampleRecords(), recs, "input is not mutated")
}

func TestRows_NameSortsByLength(t *testing.T) {
	recs := []models.MedicineRecord{
		{ID: models.TextID("a"), Name: "Zyrtec"},
		{ID: models.TextID("b"), Name: "Amoxicillin"},
		{ID: models.TextID("c"), Name: "Bonjela"},
		{ID: models.TextID("d"), Name: "Aspirin"},
	}

	rows := Rows(recs, SortState{Column: ColumnName, Order: SortDescend})
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(rows), "longest first, ties keep order")
}

func TestRows_DatesCompareRawStrings(t *testing.T) {
	recs := []models.MedicineRecord{
		{ID: models.TextID("a"), UpdatedAt: "None", CreatedAt: "2023-05-01"},
		{ID: models.TextID("b"), UpdatedAt: "2023-01-10 08:00:00", CreatedAt: "2022-01-01"},
		{ID: models.TextID("c"), UpdatedAt: "2022-12-31 23:59:59", CreatedAt: ""},
	}

	assert.Equal(t, []string{"c", "b", "a"}, ids(Rows(recs, SortState{Column: ColumnUpdatedAt, Order: SortAscend})))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Rows(recs, SortState{Column: ColumnCreatedAt, Order: SortDescend})))
}

func TestRows_UpdatedByWithoutTypeKeepsOrder(t *testing.T) {
	recs := []models.MedicineRecord{
		{ID: models.TextID("a"), UpdatedBy: "zed"},
		{ID: models.TextID("b"), UpdatedBy: "amy"},
	}
	assert.Equal(t, []string{"a", "b"}, ids(Rows(recs, SortState{Column: ColumnUpdatedBy, Order: SortAscend})))

	recs[0].Extra = map[string]json.RawMessage{"type": json.RawMessage(`"syrup"`)}
	recs[1].Extra = map[string]json.RawMessage{"type": json.RawMessage(`"tab"`)}
	assert.Equal(t, []string{"b", "a"}, ids(Rows(recs, SortState{Column: ColumnUpdatedBy, Order: SortAscend})))
}

func TestRows_UpdatedByMixedTypePresence(t *testing.T) {
	typed := func(id, kind string) models.MedicineRecord {
		return models.MedicineRecord{
			ID:    models.TextID(id),
			Extra: map[string]json.RawMessage{"type": json.RawMessage(`"` + kind + `"`)},
		}
	}
	recs := []models.MedicineRecord{
		typed("syrup", "syrup"),
		{ID: models.TextID("none-1")},
		typed("tab", "tab"),
		{ID: models.TextID("none-2")},
	}

	asc := ids(Rows(recs, SortState{Column: ColumnUpdatedBy, Order: SortAscend}))
	assert.Equal(t, []string{"none-1", "none-2", "tab", "syrup"}, asc)

	desc := ids(Rows(recs, SortState{Column: ColumnUpdatedBy, Order: SortDescend}))
	assert.Equal(t, []string{"syrup", "tab", "none-1", "none-2"}, desc)

	// The same input in any order gives the same ranking.
	reversed := []models.MedicineRecord{recs[3], recs[2], recs[1], recs[0]}
	assert.Equal(t, []string{"none-2", "none-1", "tab", "syrup"}, ids(Rows(reversed, SortState{Column: ColumnUpdatedBy, Order: SortAscend})))
}

func TestRows_LowStockFlagAndCells(t *testing.T) {
	rows := Rows(sampleRecords(), SortState{})
	require.Len(t, rows, 3)

	assert.True(t, rows[0].LowStock)
	assert.False(t, rows[1].LowStock)
	assert.True(t, rows[2].LowStock, "quantity equal to threshold is low")
	assert.Equal(t, "Panadol", rows[0].Cells[0])
	assert.Equal(t, "2", rows[0].Cells[1])
	assert.Len(t, rows[0].Cells, len(Columns()))
}

func TestNextSort_Cycles(t *testing.T) {
	s := NextSort(SortState{}, ColumnQuantity)
	assert.Equal(t, SortState{Column: ColumnQuantity, Order: SortAscend}, s)
	s = NextSort(s, ColumnQuantity)
	assert.Equal(t, SortState{Column: ColumnQuantity, Order: SortDescend}, s)
	s = NextSort(s, ColumnQuantity)
	assert.Equal(t, SortState{}, s)

	s = NextSort(SortState{}, ColumnName)
	assert.Equal(t, SortState{Column: ColumnName, Order: SortDescend}, s)
	assert.Equal(t, SortState{}, NextSort(s, ColumnName), "name only offers descend")
}

func TestNextSort_UnsortableColumns(t *testing.T) {
	current := DefaultSort()
	for _, key := range []string{ColumnBrand, ColumnCompany, ColumnOperation, "missing"} {
		assert.Equal(t, current, NextSort(current, key), key)
	}
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort(ColumnQuantity, "ascend")
	require.NoError(t, err)
	assert.Equal(t, SortState{Column: ColumnQuantity, Order: SortAscend}, s)

	s, err = ParseSort(ColumnName, "")
	require.NoError(t, err)
	assert.Equal(t, SortDescend, s.Order)

	_, err = ParseSort(ColumnName, "ascend")
	require.Error(t, err)
	_, err = ParseSort(ColumnBrand, "descend")
	require.Error(t, err)
	_, err = ParseSort("nope", "")
	require.Error(t, err)

	s, err = ParseSort("", "")
	require.NoError(t, err)
	assert.Equal(t, SortState{}, s)
}
