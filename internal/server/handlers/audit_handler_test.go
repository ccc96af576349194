package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

type fakeAuditReader struct {
	limit   int64
	entries []models.StockUpdateAudit
	err     error
}

func (f *fakeAuditReader) RecentStockUpdates(_ context.Context, limit int64) ([]models.StockUpdateAudit, error) {
	f.limit = limit
	return f.entries, f.err
}

func serveAudit(reader AuditReader, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/audit", NewAuditHandler(reader, nil).StockUpdates)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestAuditHandler_DefaultLimit(t *testing.T) {
	reader := &fakeAuditReader{}
	rec := serveAudit(reader, "/audit")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(defaultAuditLimit), reader.limit)
	assert.JSONEq(t, `{"stockUpdates":[]}`, rec.Body.String())
}

func TestAuditHandler_Limit(t *testing.T) {
	reader := &fakeAuditReader{entries: []models.StockUpdateAudit{{MedicineID: models.IntID(7), Increment: 3, Outcome: models.NotificationSuccess}}}
	rec := serveAudit(reader, "/audit?limit=5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), reader.limit)
	assert.Contains(t, rec.Body.String(), `"medicine_id":7`)

	assert.Equal(t, http.StatusBadRequest, serveAudit(reader, "/audit?limit=0").Code)
	assert.Equal(t, http.StatusBadRequest, serveAudit(reader, "/audit?limit=abc").Code)
}

func TestAuditHandler_ReaderError(t *testing.T) {
	rec := serveAudit(&fakeAuditReader{err: errors.New("down")}, "/audit")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
