package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

const (
	defaultAuditLimit = 20
	maxAuditLimit     = 200
)

// AuditReader lists stored stock update outcomes.
type AuditReader interface {
	RecentStockUpdates(ctx context.Context, limit int64) ([]models.StockUpdateAudit, error)
}

// AuditHandler exposes the stock update history.
type AuditHandler struct {
	reader AuditReader
	logger *zap.Logger
}

// NewAuditHandler constructs the audit handler.
func NewAuditHandler(reader AuditReader, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{reader: reader, logger: logger}
}

// StockUpdates returns the newest entries first. limit defaults to 20.
func (h *AuditHandler) StockUpdates(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAuditLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
			return
		}
		limit = n
	}

	entries, err := h.reader.RecentStockUpdates(c.Request.Context(), int64(limit))
	if err != nil {
		h.logger.Error("failed to read stock updates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stock updates"})
		return
	}
	if entries == nil {
		entries = []models.StockUpdateAudit{}
	}
	c.JSON(http.StatusOK, gin.H{"stockUpdates": entries})
}
