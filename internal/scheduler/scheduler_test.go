package scheduler

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/clinicstock/internal/config"
	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

type refresherStub struct{ calls atomic.Int32 }

func (r *refresherStub) Refresh() { r.calls.Add(1) }

type publisherStub struct{ calls atomic.Int32 }

func (p *publisherStub) Publish(context.Context) (models.LowStockReport, error) {
	p.calls.Add(1)
	return models.LowStockReport{Total: 1}, nil
}

func TestStart_RegistersConfiguredJobs(t *testing.T) {
	s := NewScheduler(config.SchedulerConfig{
		RefreshSchedule:  "*/5 * * * *",
		LowStockSchedule: "0 20 * * *",
		Timezone:         "Asia/Karachi",
	}, &refresherStub{}, &publisherStub{}, nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 2, s.Jobs())
}

func TestStart_SkipsEmptySchedules(t *testing.T) {
	s := NewScheduler(config.SchedulerConfig{RefreshSchedule: "@every 1m"}, &refresherStub{}, nil, nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 1, s.Jobs())
}

func TestStart_InvalidExpression(t *testing.T) {
	s := NewScheduler(config.SchedulerConfig{RefreshSchedule: "every tuesday"}, &refresherStub{}, nil, nil)
	require.Error(t, s.Start())
}

func TestJobs_CallCollaborators(t *testing.T) {
	ref := &refresherStub{}
	pub := &publisherStub{}
	s := NewScheduler(config.SchedulerConfig{}, ref, pub, nil)

	s.refresh()
	s.publishLowStock()

	assert.EqualValues(t, 1, ref.calls.Load())
	assert.EqualValues(t, 1, pub.calls.Load())
}
