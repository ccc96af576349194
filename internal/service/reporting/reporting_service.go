package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
	"github.com/mamadbah2/clinicstock/pkg/clients/whatsapp"
)

const (
	dateLayout = "2006-01-02 15:04"
	maxDigest  = 20
)

// InventorySource reads the current inventory.
type InventorySource interface {
	GetInventory(ctx context.Context) ([]models.MedicineRecord, error)
}

// SheetWriter replaces a spreadsheet range.
type SheetWriter interface {
	ReplaceRange(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// ReportStore persists low-stock snapshots.
type ReportStore interface {
	SaveLowStockReport(ctx context.Context, report models.LowStockReport) error
}

// Option wires an optional destination.
type Option func(*Service)

// WithSheet exports each report into sheetRange.
func WithSheet(w SheetWriter, sheetRange string) Option {
	return func(s *Service) {
		s.sheet = w
		s.sheetRange = sheetRange
	}
}

// WithStore persists each report.
func WithStore(store ReportStore) Option {
	return func(s *Service) { s.store = store }
}

// WithWhatsApp sends the digest to the given number.
func WithWhatsApp(client whatsapp.Client, to string) Option {
	return func(s *Service) {
		s.whatsapp = client
		s.alertTo = to
	}
}

// Service builds and publishes low-stock reports.
type Service struct {
	source     InventorySource
	sheet      SheetWriter
	sheetRange string
	store      ReportStore
	whatsapp   whatsapp.Client
	alertTo    string
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(source InventorySource, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{source: source, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildLowStockReport keeps the records at or below their threshold in input order.
func BuildLowStockReport(records []models.MedicineRecord, at time.Time) models.LowStockReport {
	report := models.LowStockReport{GeneratedAt: at, Items: []models.MedicineRecord{}}
	for _, rec := range records {
		if rec.LowStock() {
			report.Items = append(report.Items, rec)
		}
	}
	report.Total = len(report.Items)
	return report
}

// FormatDigest renders the report as a short text message.
func FormatDigest(report models.LowStockReport) string {
	if report.Total == 0 {
		return fmt.Sprintf("Low stock (%s): all medicines are above their minimum.", report.GeneratedAt.Format(dateLayout))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Low stock (%s): %d medicines at or below minimum.", report.GeneratedAt.Format(dateLayout), report.Total)
	for i, rec := range report.Items {
		if i == maxDigest {
			fmt.Fprintf(&b, "\n...and %d more.", report.Total-maxDigest)
			break
		}
		fmt.Fprintf(&b, "\n- %s: %d (min %d)", rec.Name, rec.Quantity, rec.MinimumThreshold)
	}
	return b.String()
}

// SheetRows renders the report with a header row.
func SheetRows(report models.LowStockReport) [][]interface{} {
	rows := [][]interface{}{{"Generated", "ID", "Name", "Quantity", "Minimum", "Brand", "Company"}}
	generated := report.GeneratedAt.Format(dateLayout)
	for _, rec := range report.Items {
		rows = append(rows, []interface{}{generated, rec.ID.String(), rec.Name, rec.Quantity, rec.MinimumThreshold, rec.Brand, rec.Company})
	}
	return rows
}

// Publish fetches the inventory, builds the report and sends it to every
// configured destination. Destination failures are logged and the first one
// is returned after all destinations were tried.
func (s *Service) Publish(ctx context.Context) (models.LowStockReport, error) {
	records, err := s.source.GetInventory(ctx)
	if err != nil {
		return models.LowStockReport{}, fmt.Errorf("load inventory: %w", err)
	}

	report := BuildLowStockReport(records, s.now())
	s.logger.Info("low stock report built", zap.Int("total", report.Total), zap.Int("records", len(records)))

	var firstErr error
	keep := func(step string, err error) {
		if err == nil {
			return
		}
		s.logger.Error("low stock report step failed", zap.String("step", step), zap.Error(err))
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", step, err)
		}
	}

	if s.store != nil {
		keep("store", s.store.SaveLowStockReport(ctx, report))
	}
	if s.sheet != nil {
		keep("sheet", s.sheet.ReplaceRange(ctx, s.sheetRange, SheetRows(report)))
	}
	if s.whatsapp != nil && report.Total > 0 {
		_, err := s.whatsapp.SendTextMessage(ctx, whatsapp.SendTextMessageRequest{To: s.alertTo, Body: FormatDigest(report)})
		keep("whatsapp", err)
	}

	return report, firstErr
}
