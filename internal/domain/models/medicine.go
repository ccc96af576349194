package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// PlaceholderNone is shown for descriptive fields the server left empty.
const PlaceholderNone = "None"

// MedicineRecord is one normalized inventory line item.
type MedicineRecord struct {
	ID               RecordID `json:"id" bson:"id"`
	Name             string   `json:"name" bson:"name"`
	Quantity         int      `json:"quantity" bson:"quantity"`
	MinimumThreshold int      `json:"minimumThreshold" bson:"minimum_threshold"`
	Brand            string   `json:"brand" bson:"brand"`
	Company          string   `json:"company" bson:"company"`
	UpdatedBy        string   `json:"updatedBy" bson:"updated_by"`
	UpdatedAt        string   `json:"updatedAt" bson:"updated_at"`
	CreatedAt        string   `json:"createdAt" bson:"created_at"`

	// Extra keeps fields the screen does not use, untouched.
	Extra map[string]json.RawMessage `json:"-" bson:"-"`
}

// LowStock reports whether the record is at or below its minimum threshold.
func (r MedicineRecord) LowStock() bool {
	return r.Quantity <= r.MinimumThreshold
}

var knownRecordFields = map[string]struct{}{
	"id": {}, "name": {}, "quantity": {}, "minimumThreshold": {},
	"brand": {}, "company": {}, "updatedBy": {}, "updatedAt": {}, "createdAt": {},
}

// FieldWarning notes a numeric field that could not be read and was set to 0.
type FieldWarning struct {
	Field string
	Value string
	Err   error
}

// DecodeMedicineRecord parses one raw server item and applies the display
// defaults. It is the only place defaults are applied. An unreadable quantity
// or threshold does not drop the record; it becomes 0 and is reported as a
// warning. Only an item that is not an object, or whose id is not a number or
// string, fails.
func DecodeMedicineRecord(raw json.RawMessage) (MedicineRecord, []FieldWarning, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return MedicineRecord{}, nil, fmt.Errorf("decode medicine record: %w", err)
	}

	var rec MedicineRecord
	if v, ok := fields["id"]; ok {
		if err := json.Unmarshal(v, &rec.ID); err != nil {
			return MedicineRecord{}, nil, fmt.Errorf("decode medicine record: %w", err)
		}
	}

	var warnings []FieldWarning
	numeric := func(field string) int {
		n, err := looseInt(fields[field])
		if err != nil {
			warnings = append(warnings, FieldWarning{Field: field, Value: string(fields[field]), Err: err})
			return 0
		}
		return n
	}
	rec.Quantity = numeric("quantity")
	rec.MinimumThreshold = numeric("minimumThreshold")

	rec.Name = looseString(fields["name"])
	rec.CreatedAt = looseString(fields["createdAt"])
	rec.Brand = orNone(looseString(fields["brand"]))
	rec.Company = orNone(looseString(fields["company"]))
	rec.UpdatedBy = orNone(looseString(fields["updatedBy"]))
	rec.UpdatedAt = orNone(looseString(fields["updatedAt"]))

	for k, v := range fields {
		if _, known := knownRecordFields[k]; known {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]json.RawMessage)
		}
		rec.Extra[k] = v
	}

	return rec, warnings, nil
}

// NormalizeRecords decodes a server data array, keeping server order. Items
// that are not records are skipped and field warnings are logged; neither
// fails the batch.
func NormalizeRecords(items []json.RawMessage, logger *zap.Logger) []MedicineRecord {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]MedicineRecord, 0, len(items))
	for i, item := range items {
		rec, warnings, err := DecodeMedicineRecord(item)
		if err != nil {
			logger.Warn("skipping malformed inventory item", zap.Int("index", i), zap.Error(err))
			continue
		}
		for _, w := range warnings {
			logger.Warn("inventory field defaulted to 0",
				zap.Int("index", i),
				zap.Stringer("id", rec.ID),
				zap.String("field", w.Field),
				zap.String("value", w.Value),
				zap.Error(w.Err))
		}
		out = append(out, rec)
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return PlaceholderNone
	}
	return s
}

// looseString renders scalars as text. null, false and absent map to "".
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		return ""
	}
}

// looseInt accepts numbers and numeric strings. Absent, null and "" are 0.
// Fractions are truncated toward zero, so 2.5 reads as 2.
func looseInt(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case float64:
		return truncInt(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		return truncInt(f)
	default:
		return 0, fmt.Errorf("unexpected value %s", string(raw))
	}
}

// truncInt drops the fraction of f. Values outside the int range are rejected.
func truncInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt || f < math.MinInt {
		return 0, fmt.Errorf("out of range: %v", f)
	}
	return int(math.Trunc(f)), nil
}
