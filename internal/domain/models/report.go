package models

import "time"

// LowStockReport summarizes the records at or below their threshold.
type LowStockReport struct {
	GeneratedAt time.Time        `bson:"generated_at" json:"generated_at"`
	Total       int              `bson:"total" json:"total"`
	Items       []MedicineRecord `bson:"items" json:"items"`
}
