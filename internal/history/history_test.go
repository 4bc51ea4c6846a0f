package history

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
)

func newHistory(t *testing.T) *History {
	t.Helper()
	h := New(kvstore.Open(t.TempDir()))
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return h
}

func params(initial float64, code string) model.Params {
	p := model.DefaultParams()
	p.Initial = initial
	p.Currency = model.CurrencyFor(code)
	return p
}

func TestAddPrependsNewest(t *testing.T) {
	h := newHistory(t)

	first, err := h.Add(params(100, "USD"))
	require.NoError(t, err)
	second, err := h.Add(params(200, "EUR"))
	require.NoError(t, err)

	entries, err := h.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, "EUR 200 @ 0.05% /day • 1y 0m 0d", entries[0].Title)
}

func TestAddCapsAtMax(t *testing.T) {
	h := newHistory(t)
	for i := 0; i < MaxEntries+5; i++ {
		_, err := h.Add(params(float64(i), "USD"))
		require.NoError(t, err)
	}

	entries, err := h.List()
	require.NoError(t, err)
	assert.Len(t, entries, MaxEntries)
	assert.Equal(t, float64(MaxEntries+4), entries[0].Params.Initial)
	assert.Equal(t, 5.0, entries[MaxEntries-1].Params.Initial)
}

func TestAddSameMillisecondGetsDistinctIDs(t *testing.T) {
	h := New(kvstore.Open(t.TempDir()))
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	a, err := h.Add(params(1, "USD"))
	require.NoError(t, err)
	b, err := h.Add(params(2, "USD"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddConcurrent(t *testing.T) {
	h := New(kvstore.Open(t.TempDir()))
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.Add(params(float64(100+i), "USD"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := h.List()
	require.NoError(t, err)
	require.Len(t, entries, 20)

	ids := make(map[int64]bool, len(entries))
	for _, e := range entries {
		ids[e.ID] = true
	}
	assert.Len(t, ids, 20)
}

func TestSearch(t *testing.T) {
	h := newHistory(t)
	_, err := h.Add(params(100, "USD"))
	require.NoError(t, err)
	_, err = h.Add(params(200, "GBP"))
	require.NoError(t, err)

	got, err := h.Search("gbp")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 200.0, got[0].Params.Initial)

	got, err = h.Search("£")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = h.Search("2024-06-01")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = h.Search("")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFindAndDelete(t *testing.T) {
	h := newHistory(t)
	e, err := h.Add(params(100, "USD"))
	require.NoError(t, err)

	found, err := h.Find(e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Title, found.Title)

	require.NoError(t, h.Delete(e.ID))
	_, err = h.Find(e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, h.Delete(e.ID), ErrNotFound)

	_, err = h.Add(params(5, "USD"))
	require.NoError(t, err)
	require.NoError(t, h.Clear())
	entries, err := h.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
