package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
	"github.com/mamadbah2/clinicstock/pkg/clients/whatsapp"
)

func TestRelay_NotifyReloadsThenDeliversSinks(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}
	sink := SinkFunc(func(_ context.Context, n models.Notification) error {
		record("sink:" + string(n.Kind))
		return nil
	})
	r := NewRelay(time.Second, nil, sink)
	r.OnReload(func() { record("reload") })

	r.Success(context.Background(), "ok")
	r.Wait()
	r.Error(context.Background(), "bad")
	r.Wait()

	assert.Equal(t, []string{"reload", "sink:success", "reload", "sink:error"}, order)
}

func TestRelay_SinkErrorDoesNotStopReload(t *testing.T) {
	reloaded := false
	r := NewRelay(time.Second, nil, SinkFunc(func(context.Context, models.Notification) error {
		return errors.New("down")
	}))
	r.OnReload(func() { reloaded = true })

	r.Error(context.Background(), "bad")
	assert.True(t, reloaded)
	r.Wait()
}

func TestRelay_BlockingSinkDoesNotDelayReload(t *testing.T) {
	release := make(chan struct{})
	r := NewRelay(time.Second, nil, SinkFunc(func(ctx context.Context, _ models.Notification) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}))
	reloaded := make(chan struct{}, 1)
	r.OnReload(func() { reloaded <- struct{}{} })

	done := make(chan struct{})
	go func() {
		r.Error(context.Background(), "bad")
		close(done)
	}()

	select {
	case <-reloaded:
	case <-time.After(time.Second):
		t.Fatal("reload waited on the sink")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notify waited on the sink")
	}

	close(release)
	r.Wait()
}

func TestRelay_SinkDeadline(t *testing.T) {
	deadlines := make(chan bool, 1)
	r := NewRelay(time.Second, nil, SinkFunc(func(ctx context.Context, _ models.Notification) error {
		_, ok := ctx.Deadline()
		<-ctx.Done()
		deadlines <- ok
		return ctx.Err()
	}))
	r.SetSinkTimeout(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	r.Success(ctx, "ok")
	cancel()

	finished := make(chan struct{})
	go func() {
		r.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("sink ran past its deadline")
	}
	assert.True(t, <-deadlines)
}

func TestRelay_ActiveExpires(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := NewRelay(5*time.Second, nil)
	r.now = func() time.Time { return now }

	n := r.Success(context.Background(), "ok")
	assert.Equal(t, "SUCCESS", n.Title())
	require.Len(t, r.Active(), 1)

	now = now.Add(6 * time.Second)
	assert.Empty(t, r.Active())
	assert.Len(t, r.Recent(), 1)
}

func TestRelay_RecentIsBounded(t *testing.T) {
	r := NewRelay(time.Second, nil)
	for i := 0; i < maxRecent+10; i++ {
		r.Success(context.Background(), "ok")
	}
	assert.Len(t, r.Recent(), maxRecent)
}

type auditStub struct {
	saved []models.StockUpdateAudit
}

func (a *auditStub) SaveStockUpdate(_ context.Context, audit models.StockUpdateAudit) error {
	a.saved = append(a.saved, audit)
	return nil
}

func TestAuditSink_OnlyUpdates(t *testing.T) {
	repo := &auditStub{}
	sink := NewAuditSink(repo)

	require.NoError(t, sink.Deliver(context.Background(), models.Notification{Kind: models.NotificationSuccess, Message: "plain"}))
	assert.Empty(t, repo.saved)

	at := time.Now()
	n := models.Notification{
		Kind: models.NotificationError, Message: "failed", At: at, Error: "status=500",
		Update: &models.UpdateQuantityData{ID: models.IntID(7), Quantity: 4},
	}
	require.NoError(t, sink.Deliver(context.Background(), n))
	require.Len(t, repo.saved, 1)
	assert.Equal(t, models.StockUpdateAudit{
		MedicineID: models.IntID(7), Increment: 4, Outcome: models.NotificationError, Message: "failed",
		Error: "status=500", CreatedAt: at,
	}, repo.saved[0])
}

type whatsappStub struct {
	sent []whatsapp.SendTextMessageRequest
}

func (w *whatsappStub) SendTextMessage(_ context.Context, req whatsapp.SendTextMessageRequest) (*whatsapp.SendTextMessageResponse, error) {
	w.sent = append(w.sent, req)
	return &whatsapp.SendTextMessageResponse{}, nil
}

func TestWhatsAppSink_ForwardsErrorsOnly(t *testing.T) {
	stub := &whatsappStub{}
	sink := NewWhatsAppSink(stub, "923000000000")

	require.NoError(t, sink.Deliver(context.Background(), models.Notification{Kind: models.NotificationSuccess, Message: "ok"}))
	assert.Empty(t, stub.sent)

	require.NoError(t, sink.Deliver(context.Background(), models.Notification{
		Kind: models.NotificationError, Message: "There was an error updating the inventory.",
		Update: &models.UpdateQuantityData{ID: models.IntID(3), Quantity: 20},
	}))
	require.Len(t, stub.sent, 1)
	assert.Equal(t, "923000000000", stub.sent[0].To)
	assert.Equal(t, "ERROR: There was an error updating the inventory. (medicine 3, +20)", stub.sent[0].Body)
}
