package inventory

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

// SortOrder is a column sort direction. The empty order means unsorted.
type SortOrder string

const (
	SortNone    SortOrder = ""
	SortAscend  SortOrder = "ascend"
	SortDescend SortOrder = "descend"
)

// Column keys.
const (
	ColumnName      = "name"
	ColumnQuantity  = "quantity"
	ColumnBrand     = "brand"
	ColumnCompany   = "company"
	ColumnCreatedAt = "createdAt"
	ColumnUpdatedAt = "updatedAt"
	ColumnUpdatedBy = "updatedBy"
	ColumnOperation = "operation"
)

// Comparator orders two records ascending: negative, zero or positive.
type Comparator func(a, b models.MedicineRecord) int

// Column describes one table column.
type Column struct {
	Key          string
	Title        string
	Compare      Comparator
	Directions   []SortOrder
	DefaultOrder SortOrder
}

// Sortable reports whether the column has a comparator.
func (c Column) Sortable() bool {
	return c.Compare != nil
}

var bothDirections = []SortOrder{SortAscend, SortDescend}

// Columns returns the inventory table layout. Several comparators keep the
// behaviour operators already know:
//   - Name orders by name length, descending only.
//   - Brand and Company carry a default order but no comparator.
//   - Dates compare the raw server strings.
//   - Updated By orders by the length of the record's "type" field; records
//     without one compare equal.
func Columns() []Column {
	return []Column{
		{
			Key:        ColumnName,
			Title:      "Name",
			Compare:    compareNameLength,
			Directions: []SortOrder{SortDescend},
		},
		{
			Key:          ColumnQuantity,
			Title:        "Quantity",
			Compare:      compareQuantity,
			Directions:   bothDirections,
			DefaultOrder: SortDescend,
		},
		{Key: ColumnBrand, Title: "Brand", DefaultOrder: SortDescend},
		{Key: ColumnCompany, Title: "Company", DefaultOrder: SortDescend},
		{
			Key:        ColumnCreatedAt,
			Title:      "Created Date",
			Compare:    func(a, b models.MedicineRecord) int { return strings.Compare(a.CreatedAt, b.CreatedAt) },
			Directions: bothDirections,
		},
		{
			Key:        ColumnUpdatedAt,
			Title:      "Updated Date",
			Compare:    func(a, b models.MedicineRecord) int { return strings.Compare(a.UpdatedAt, b.UpdatedAt) },
			Directions: bothDirections,
		},
		{
			Key:        ColumnUpdatedBy,
			Title:      "Updated By",
			Compare:    compareTypeLength,
			Directions: bothDirections,
		},
		{Key: ColumnOperation, Title: ""},
	}
}

// ColumnByKey finds a column by key.
func ColumnByKey(key string) (Column, bool) {
	for _, c := range Columns() {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

func compareNameLength(a, b models.MedicineRecord) int {
	return utf8.RuneCountInString(a.Name) - utf8.RuneCountInString(b.Name)
}

func compareQuantity(a, b models.MedicineRecord) int {
	return a.Quantity - b.Quantity
}

// compareTypeLength orders by the length of the record's "type" field.
// Records without a readable type rank before every typed record and tie
// with each other.
func compareTypeLength(a, b models.MedicineRecord) int {
	return typeLength(a) - typeLength(b)
}

func typeLength(r models.MedicineRecord) int {
	raw, ok := r.Extra["type"]
	if !ok {
		return -1
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return -1
	}
	return utf8.RuneCountInString(s)
}

// SortState is the single active sort.
type SortState struct {
	Column string    `json:"column,omitempty"`
	Order  SortOrder `json:"order,omitempty"`
}

// DefaultSort is the first sortable column carrying a default order.
func DefaultSort() SortState {
	for _, c := range Columns() {
		if c.Sortable() && c.DefaultOrder != SortNone {
			return SortState{Column: c.Key, Order: c.DefaultOrder}
		}
	}
	return SortState{}
}

// NextSort advances the sort the way a header click does: a new column starts
// at its first direction, the same column steps through its directions and
// then back to unsorted. Unsortable columns leave the state unchanged.
func NextSort(current SortState, key string) SortState {
	col, ok := ColumnByKey(key)
	if !ok || !col.Sortable() || len(col.Directions) == 0 {
		return current
	}
	if current.Column != key || current.Order == SortNone {
		return SortState{Column: key, Order: col.Directions[0]}
	}
	idx := slices.Index(col.Directions, current.Order)
	if idx < 0 || idx+1 >= len(col.Directions) {
		return SortState{}
	}
	return SortState{Column: key, Order: col.Directions[idx+1]}
}

// ParseSort validates a requested column and order.
func ParseSort(key, order string) (SortState, error) {
	if key == "" {
		return SortState{}, nil
	}
	col, ok := ColumnByKey(key)
	if !ok {
		return SortState{}, fmt.Errorf("unknown column %q", key)
	}
	if !col.Sortable() {
		return SortState{}, fmt.Errorf("column %q is not sortable", key)
	}
	o := SortOrder(order)
	if o == SortNone {
		o = col.Directions[0]
	}
	if !slices.Contains(col.Directions, o) {
		return SortState{}, fmt.Errorf("column %q cannot sort %q", key, order)
	}
	return SortState{Column: key, Order: o}, nil
}

// Row is one rendered table line.
type Row struct {
	Record   models.MedicineRecord `json:"record"`
	LowStock bool                  `json:"lowStock"`
	Cells    []string              `json:"cells"`
}

// Rows sorts a copy of records and formats them. The input is not modified.
func Rows(records []models.MedicineRecord, sort SortState) []Row {
	sorted := cloneRecords(records)
	if col, ok := ColumnByKey(sort.Column); ok && col.Sortable() && sort.Order != SortNone {
		cmp := col.Compare
		if sort.Order == SortDescend {
			slices.SortStableFunc(sorted, func(a, b models.MedicineRecord) int { return cmp(b, a) })
		} else {
			slices.SortStableFunc(sorted, cmp)
		}
	}

	cols := Columns()
	rows := make([]Row, 0, len(sorted))
	for _, rec := range sorted {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cellText(c.Key, rec)
		}
		rows = append(rows, Row{Record: rec, LowStock: rec.LowStock(), Cells: cells})
	}
	return rows
}

func cellText(key string, r models.MedicineRecord) string {
	switch key {
	case ColumnName:
		return r.Name
	case ColumnQuantity:
		return strconv.Itoa(r.Quantity)
	case ColumnBrand:
		return r.Brand
	case ColumnCompany:
		return r.Company
	case ColumnCreatedAt:
		return r.CreatedAt
	case ColumnUpdatedAt:
		return r.UpdatedAt
	case ColumnUpdatedBy:
		return r.UpdatedBy
	default:
		return ""
	}
}
