package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
	"github.com/mamadbah2/clinicstock/pkg/clients/whatsapp"
)

// AuditRepository persists stock update outcomes.
type AuditRepository interface {
	SaveStockUpdate(ctx context.Context, audit models.StockUpdateAudit) error
}

// AuditSink stores every notification that reports a quantity update.
type AuditSink struct {
	repo AuditRepository
}

// NewAuditSink wraps repo.
func NewAuditSink(repo AuditRepository) *AuditSink {
	return &AuditSink{repo: repo}
}

// Deliver implements Sink.
func (s *AuditSink) Deliver(ctx context.Context, n models.Notification) error {
	if n.Update == nil {
		return nil
	}
	return s.repo.SaveStockUpdate(ctx, models.StockUpdateAudit{
		MedicineID: n.Update.ID,
		Increment:  n.Update.Quantity,
		Outcome:    n.Kind,
		Message:    n.Message,
		Error:      n.Error,
		CreatedAt:  n.At,
	})
}

// WhatsAppSink forwards failed updates to an on-call number.
type WhatsAppSink struct {
	client whatsapp.Client
	to     string
}

// NewWhatsAppSink sends error notifications to the given number.
func NewWhatsAppSink(client whatsapp.Client, to string) *WhatsAppSink {
	return &WhatsAppSink{client: client, to: to}
}

// Deliver implements Sink. Success notifications are not forwarded.
func (s *WhatsAppSink) Deliver(ctx context.Context, n models.Notification) error {
	if n.Kind != models.NotificationError {
		return nil
	}

	body := fmt.Sprintf("%s: %s", n.Title(), n.Message)
	if n.Update != nil {
		body += fmt.Sprintf(" (medicine %s, +%d)", n.Update.ID, n.Update.Quantity)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctx, whatsapp.SendTextMessageRequest{To: s.to, Body: body})
	return err
}
