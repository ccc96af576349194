package models

import (
	"strings"
	"time"
)

// NotificationKind tags a notification for display.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient operator message.
type Notification struct {
	Kind    NotificationKind `json:"kind" bson:"kind"`
	Message string           `json:"message" bson:"message"`
	At      time.Time        `json:"at" bson:"at"`

	// Update is set when the notification reports a quantity update.
	Update *UpdateQuantityData `json:"update,omitempty" bson:"update,omitempty"`
	// Error is the failure text behind an error notification, if any.
	Error string `json:"error,omitempty" bson:"error,omitempty"`
}

// Title is the upper-cased kind, e.g. "SUCCESS".
func (n Notification) Title() string {
	return strings.ToUpper(string(n.Kind))
}

// StockUpdateAudit is the persisted trace of one commit attempt.
type StockUpdateAudit struct {
	MedicineID RecordID         `bson:"medicine_id" json:"medicine_id"`
	Increment  int              `bson:"increment" json:"increment"`
	Outcome    NotificationKind `bson:"outcome" json:"outcome"`
	Message    string           `bson:"message" json:"message"`
	Error      string           `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt  time.Time        `bson:"created_at" json:"created_at"`
}
