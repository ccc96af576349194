package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

func sampleRecords() []models.MedicineRecord {
	return []models.MedicineRecord{
		{ID: models.IntID(1), Name: "Panadol", Quantity: 2, MinimumThreshold: 5},
		{ID: models.IntID(2), Name: "Brufen", Quantity: 30, MinimumThreshold: 5},
		{ID: models.IntID(3), Name: "Augmentin", Quantity: 12, MinimumThreshold: 12},
	}
}

func loadedView(t *testing.T) *View {
	t.Helper()
	v := &View{}
	token := v.BeginFetch()
	require.True(t, v.CompleteFetch(token, sampleRecords()))
	return v
}

func TestView_FetchPublishesBothSets(t *testing.T) {
	v := &View{}
	token := v.BeginFetch()
	assert.True(t, v.Snapshot().Loading)

	require.True(t, v.CompleteFetch(token, sampleRecords()))
	snap := v.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, sampleRecords(), snap.Master)
	assert.Equal(t, sampleRecords(), snap.Displayed)
	assert.Equal(t, []string{"Panadol", "Brufen", "Augmentin"}, snap.Options)
}

func TestView_StaleFetchIsDropped(t *testing.T) {
	v := &View{}
	first := v.BeginFetch()
	second := v.BeginFetch()

	require.True(t, v.CompleteFetch(second, sampleRecords()[:1]))
	assert.False(t, v.CompleteFetch(first, sampleRecords()))
	assert.False(t, v.FailFetch(first, errors.New("late")))

	snap := v.Snapshot()
	assert.Len(t, snap.Displayed, 1)
	assert.Empty(t, snap.FetchError)
}

func TestView_FailFetchEndsLoading(t *testing.T) {
	v := loadedView(t)
	token := v.BeginFetch()

	require.True(t, v.FailFetch(token, errors.New("boom")))
	snap := v.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "boom", snap.FetchError)
	assert.Len(t, snap.Master, 3, "previous data is kept")

	token = v.BeginFetch()
	require.True(t, v.CompleteFetch(token, sampleRecords()))
	assert.Empty(t, v.Snapshot().FetchError)
}

func TestView_FilterExactMatch(t *testing.T) {
	v := loadedView(t)

	assert.False(t, v.ApplyFilter("Panadol"))
	snap := v.Snapshot()
	require.Len(t, snap.Displayed, 1)
	assert.Equal(t, models.IntID(1), snap.Displayed[0].ID)
	assert.Len(t, snap.Master, 3, "filtering never touches master")

	assert.False(t, v.ApplyFilter("Panadol"))
	assert.Equal(t, snap.Displayed, v.Snapshot().Displayed, "filter is idempotent")
}

func TestView_FilterIsCaseSensitiveAndNotSubstring(t *testing.T) {
	v := loadedView(t)

	v.ApplyFilter("panadol")
	assert.Empty(t, v.Snapshot().Displayed)
	assert.NotNil(t, v.Snapshot().Displayed)

	v.ApplyFilter("Pana")
	assert.Empty(t, v.Snapshot().Displayed)
}

func TestView_ClearFilterRequestsFetch(t *testing.T) {
	v := loadedView(t)
	v.ApplyFilter("Brufen")

	assert.True(t, v.ApplyFilter(""))
}

func TestView_OpenEditUnknownRecord(t *testing.T) {
	v := loadedView(t)

	err := v.OpenEdit(models.IntID(99))
	require.ErrorIs(t, err, ErrRecordNotFound)
	snap := v.Snapshot()
	assert.False(t, snap.Session.IsOpen())
}

func TestView_EditAgainstMasterWhileFiltered(t *testing.T) {
	v := loadedView(t)
	v.ApplyFilter("Brufen")

	require.NoError(t, v.OpenEdit(models.IntID(1)))
	snap := v.Snapshot()
	assert.Equal(t, 2, snap.Session.CurrentQuantity)
	assert.False(t, snap.CanCommit)
}
