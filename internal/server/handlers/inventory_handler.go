package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
	"github.com/mamadbah2/clinicstock/internal/service/inventory"
)

// InventoryController is the screen state the HTTP layer drives.
type InventoryController interface {
	Refresh()
	ApplyFilter(name string)
	OpenEdit(id models.RecordID) error
	InputStock(raw string) error
	CommitEdit() (models.UpdateQuantityRequest, error)
	CancelEdit()
	SetSort(s inventory.SortState)
	Sort() inventory.SortState
	Snapshot() inventory.Snapshot
	Rows() []inventory.Row
}

// NotificationFeed lists notifications for display.
type NotificationFeed interface {
	Active() []models.Notification
	Recent() []models.Notification
}

// InventoryHandler exposes the inventory screen over HTTP.
type InventoryHandler struct {
	ctrl   InventoryController
	feed   NotificationFeed
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(ctrl InventoryController, feed NotificationFeed, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{ctrl: ctrl, feed: feed, logger: logger}
}

type inventoryResponse struct {
	inventory.Snapshot
	Sort    inventory.SortState   `json:"sort"`
	Columns []columnResponse      `json:"columns"`
	Rows    []inventory.Row       `json:"rows"`
	Notices []models.Notification `json:"notifications"`
}

type columnResponse struct {
	Key          string                `json:"key"`
	Title        string                `json:"title"`
	Sortable     bool                  `json:"sortable"`
	Directions   []inventory.SortOrder `json:"sortDirections,omitempty"`
	DefaultOrder inventory.SortOrder   `json:"defaultSortOrder,omitempty"`
}

func (h *InventoryHandler) render(c *gin.Context, status int) {
	cols := inventory.Columns()
	out := make([]columnResponse, 0, len(cols))
	for _, col := range cols {
		out = append(out, columnResponse{
			Key:          col.Key,
			Title:        col.Title,
			Sortable:     col.Sortable(),
			Directions:   col.Directions,
			DefaultOrder: col.DefaultOrder,
		})
	}

	c.JSON(status, inventoryResponse{
		Snapshot: h.ctrl.Snapshot(),
		Sort:     h.ctrl.Sort(),
		Columns:  out,
		Rows:     h.ctrl.Rows(),
		Notices:  h.feed.Active(),
	})
}

// Get returns the screen state. The optional sort and order query parameters
// select the active sort first.
func (h *InventoryHandler) Get(c *gin.Context) {
	if key, ok := c.GetQuery("sort"); ok {
		s, err := inventory.ParseSort(key, c.Query("order"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.ctrl.SetSort(s)
	}
	h.render(c, http.StatusOK)
}

// Refresh re-fetches the inventory.
func (h *InventoryHandler) Refresh(c *gin.Context) {
	h.ctrl.Refresh()
	h.render(c, http.StatusAccepted)
}

type filterRequest struct {
	Name string `json:"name"`
}

// Filter applies an exact-name filter; an empty name re-fetches.
func (h *InventoryHandler) Filter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid filter payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.ctrl.ApplyFilter(req.Name)
	status := http.StatusOK
	if req.Name == "" {
		status = http.StatusAccepted
	}
	h.render(c, status)
}

type openEditRequest struct {
	ID models.RecordID `json:"id"`
}

// OpenEdit starts an edit session for a record.
func (h *InventoryHandler) OpenEdit(c *gin.Context) {
	var req openEditRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID.IsZero() {
		h.logger.Warn("invalid edit payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.ctrl.OpenEdit(req.ID); err != nil {
		if errors.Is(err, inventory.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Snapshot().Session)
}

// stockRequest carries the raw field text. A JSON number is passed on as
// written so the session parses it the same way as typed input.
type stockRequest struct {
	Value json.RawMessage `json:"value"`
}

func (r stockRequest) text() string {
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return s
	}
	if bytes.Equal(bytes.TrimSpace(r.Value), []byte("null")) {
		return ""
	}
	return string(bytes.TrimSpace(r.Value))
}

// InputStock validates the stocked quantity field.
func (h *InventoryHandler) InputStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.ctrl.InputStock(req.text()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	snap := h.ctrl.Snapshot()
	status := http.StatusOK
	if snap.Session.ValidationError != "" {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"session": snap.Session, "canCommit": snap.CanCommit})
}

// Commit closes the session and sends the update in the background.
func (h *InventoryHandler) Commit(c *gin.Context) {
	req, err := h.ctrl.CommitEdit()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.logger.Info("stock update submitted", zap.String("id", req.Data.ID.String()), zap.Int("increment", req.Data.Quantity))
	c.JSON(http.StatusAccepted, req)
}

// Cancel closes the session without sending anything.
func (h *InventoryHandler) Cancel(c *gin.Context) {
	h.ctrl.CancelEdit()
	c.Status(http.StatusNoContent)
}

// Notifications lists retained notifications, oldest first.
func (h *InventoryHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.feed.Recent()})
}
