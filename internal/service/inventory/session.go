package inventory

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

// StockValidationMessage is shown while the stocked quantity is not positive.
const StockValidationMessage = "Please enter the stock quantity greater than zero."

var (
	// ErrSessionClosed is returned when no edit session is open.
	ErrSessionClosed = errors.New("no edit session is open")
	// ErrCommitDisabled is returned when the session cannot be committed yet.
	ErrCommitDisabled = errors.New("commit is disabled until a stock quantity greater than zero is entered")
)

// EditSession is the single in-progress stock update. The zero value is a
// closed session.
type EditSession struct {
	TargetID        models.RecordID `json:"targetId"`
	CurrentQuantity int             `json:"currentQuantity"`
	StockQuantity   int             `json:"stockQuantity"`
	NewQuantity     int             `json:"newQuantity"`
	ValidationError string          `json:"validationError,omitempty"`
	Active          bool            `json:"open"`
}

// Open starts a session for record. NewQuantity stays 0 until the first
// valid input.
func (s *EditSession) Open(record models.MedicineRecord) {
	*s = EditSession{
		TargetID:        record.ID,
		CurrentQuantity: record.Quantity,
		Active:          true,
	}
}

// IsOpen reports whether a session is in progress.
func (s *EditSession) IsOpen() bool {
	return s.Active
}

// Input validates one change of the stocked-quantity field. Rejected input
// sets the validation error and leaves StockQuantity and NewQuantity alone.
func (s *EditSession) Input(raw string) error {
	if !s.Active {
		return ErrSessionClosed
	}

	value, ok := parseIncrement(raw)
	if !ok {
		s.ValidationError = StockValidationMessage
		return nil
	}

	s.ValidationError = ""
	s.StockQuantity = value
	s.NewQuantity = s.CurrentQuantity + value
	return nil
}

// CanCommit reports whether the commit action is enabled.
func (s *EditSession) CanCommit() bool {
	return s.Active && s.ValidationError == "" && s.StockQuantity > 0
}

// Commit builds the update request carrying the increment and closes the
// session at once, before any response is known.
func (s *EditSession) Commit() (models.UpdateQuantityRequest, error) {
	if !s.Active {
		return models.UpdateQuantityRequest{}, ErrSessionClosed
	}
	if !s.CanCommit() {
		return models.UpdateQuantityRequest{}, ErrCommitDisabled
	}

	req := models.NewUpdateQuantityRequest(s.TargetID, s.StockQuantity)
	s.reset()
	return req, nil
}

// Cancel closes the session without a network call.
func (s *EditSession) Cancel() {
	s.reset()
}

func (s *EditSession) reset() {
	*s = EditSession{}
}

// parseIncrement accepts positive numbers. Fractions are truncated and a
// truncated value of zero is rejected.
func parseIncrement(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	if f > math.MaxInt32 {
		return 0, false
	}
	n := int(math.Trunc(f))
	return n, n > 0
}
