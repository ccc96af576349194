package inventory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
	"github.com/mamadbah2/clinicstock/internal/service/notification"
	client "github.com/mamadbah2/clinicstock/pkg/clients/inventory"
)

// Notification texts for the commit outcome.
const (
	UpdateSucceededMessage = "Medical Inventory has been updated."
	UpdateFailedMessage    = "There was an error updating the inventory."
)

// Option customizes a Controller.
type Option func(*Controller)

// WithLoadInventory sets the container callback run after every notification.
func WithLoadInventory(fn func()) Option {
	return func(c *Controller) {
		if fn != nil {
			c.loadInventory = fn
		}
	}
}

// WithRequestTimeout bounds each fetch and update call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Controller drives a View against the inventory API. Every transition runs
// under one mutex; network calls run on goroutines and re-enter through it.
type Controller struct {
	mu   sync.Mutex
	view View
	sort SortState
	subs map[chan struct{}]struct{}

	client        client.Client
	relay         *notification.Relay
	loadInventory func()
	timeout       time.Duration
	logger        *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController wires the controller and registers its re-fetch on the relay.
func NewController(api client.Client, relay *notification.Relay, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if relay == nil {
		relay = notification.NewRelay(4500*time.Millisecond, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		sort:          DefaultSort(),
		subs:          make(map[chan struct{}]struct{}),
		client:        api,
		relay:         relay,
		loadInventory: func() {},
		timeout:       30 * time.Second,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, opt := range opts {
		opt(c)
	}

	relay.OnReload(func() {
		c.loadInventory()
		c.Refresh()
	})
	return c
}

// Relay returns the notification relay used for commit outcomes.
func (c *Controller) Relay() *notification.Relay {
	return c.relay
}

// Refresh starts a fetch. Only the most recently started fetch may publish.
func (c *Controller) Refresh() {
	c.mu.Lock()
	token := c.view.BeginFetch()
	c.mu.Unlock()
	c.changed()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.fetch(token)
	}()
}

func (c *Controller) fetch(token uint64) {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	records, err := c.client.GetInventory(ctx)

	c.mu.Lock()
	var applied bool
	if err != nil {
		applied = c.view.FailFetch(token, err)
	} else {
		applied = c.view.CompleteFetch(token, records)
	}
	c.mu.Unlock()

	switch {
	case !applied:
		c.logger.Debug("dropped stale inventory response", zap.Uint64("token", token))
		return
	case err != nil:
		c.logger.Error("failed to fetch inventory", zap.Error(err))
	default:
		c.logger.Info("inventory loaded", zap.Int("records", len(records)))
	}
	c.changed()
}

// ApplyFilter narrows the displayed set to name, or re-fetches when name is empty.
func (c *Controller) ApplyFilter(name string) {
	c.mu.Lock()
	needsFetch := c.view.ApplyFilter(name)
	c.mu.Unlock()

	if needsFetch {
		c.Refresh()
		return
	}
	c.changed()
}

// OpenEdit starts the edit session for id.
func (c *Controller) OpenEdit(id models.RecordID) error {
	c.mu.Lock()
	err := c.view.OpenEdit(id)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.changed()
	return nil
}

// InputStock validates a change of the stocked-quantity field.
func (c *Controller) InputStock(raw string) error {
	c.mu.Lock()
	err := c.view.InputStock(raw)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.changed()
	return nil
}

// CancelEdit closes the edit session.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.view.CancelEdit()
	c.mu.Unlock()
	c.changed()
}

// CommitEdit closes the session immediately and sends the update in the
// background. The outcome is reported through the relay, which then reloads.
func (c *Controller) CommitEdit() (models.UpdateQuantityRequest, error) {
	c.mu.Lock()
	req, err := c.view.CommitEdit()
	c.mu.Unlock()
	if err != nil {
		return models.UpdateQuantityRequest{}, err
	}
	c.changed()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.update(req)
	}()
	return req, nil
}

func (c *Controller) update(req models.UpdateQuantityRequest) {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	data := req.Data
	n := models.Notification{Kind: models.NotificationSuccess, Message: UpdateSucceededMessage, Update: &data}
	if err := c.client.UpdateQuantity(ctx, req); err != nil {
		c.logger.Error("failed to update quantity", zap.Error(err), zap.String("id", data.ID.String()), zap.Int("increment", data.Quantity))
		n.Kind = models.NotificationError
		n.Message = UpdateFailedMessage
		n.Error = err.Error()
	}

	c.relay.Notify(context.WithoutCancel(ctx), n)
	c.changed()
}

// SetSort selects the active sort.
func (c *Controller) SetSort(s SortState) {
	c.mu.Lock()
	c.sort = s
	c.mu.Unlock()
	c.changed()
}

// ToggleSort advances the sort for column as a header click would.
func (c *Controller) ToggleSort(column string) SortState {
	c.mu.Lock()
	c.sort = NextSort(c.sort, column)
	s := c.sort
	c.mu.Unlock()
	c.changed()
	return s
}

// Sort returns the active sort.
func (c *Controller) Sort() SortState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

// Snapshot copies the view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Snapshot()
}

// Rows renders the displayed set with the active sort.
func (c *Controller) Rows() []Row {
	c.mu.Lock()
	displayed := cloneRecords(c.view.displayed)
	s := c.sort
	c.mu.Unlock()
	return Rows(displayed, s)
}

// Subscribe returns a channel signalled after every state change. Signals
// coalesce; readers should re-read Snapshot. Call the returned func to stop.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	return ch, func() {
		c.mu.Lock()
		delete(c.subs, ch)
		c.mu.Unlock()
	}
}

func (c *Controller) changed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Wait blocks until no fetch or update is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight calls and waits for them to finish.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}
