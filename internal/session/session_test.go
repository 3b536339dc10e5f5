package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

type fakeAggregator struct {
	mu     sync.Mutex
	ranges []domain.DateRange
	err    error
}

func (f *fakeAggregator) record(r domain.DateRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = append(f.ranges, r)
	return f.err
}

func (f *fakeAggregator) TotalRevenue(_ context.Context, r domain.DateRange) (float64, error) {
	if err := f.record(r); err != nil {
		return 0, err
	}
	return 2500, nil
}

func (f *fakeAggregator) TopProducts(_ context.Context, r domain.DateRange, n int, dir domain.SortDirection) ([]domain.ProductSales, error) {
	if err := f.record(r); err != nil {
		return nil, err
	}
	if dir == domain.SortAscending {
		return []domain.ProductSales{{ProductName: "B", UnitsSold: 1}}, nil
	}
	return []domain.ProductSales{{ProductName: "A", UnitsSold: 2}}, nil
}

func (f *fakeAggregator) ClientOfTheRange(_ context.Context, r domain.DateRange) (*domain.ClientOfTheRange, error) {
	if err := f.record(r); err != nil {
		return nil, err
	}
	return &domain.ClientOfTheRange{ClientID: "c1", DisplayName: "Ana", TotalValue: 500, OrderCount: 2}, nil
}

func (f *fakeAggregator) OrdersInRange(_ context.Context, r domain.DateRange) ([]domain.OrderSummary, error) {
	if err := f.record(r); err != nil {
		return nil, err
	}
	return []domain.OrderSummary{{ID: "s1", ClientName: "Ana", Total: 500}}, nil
}

func (f *fakeAggregator) lastRange() domain.DateRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ranges[len(f.ranges)-1]
}

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	gates   map[string]chan struct{}
	started chan string
}

func (f *fakeSearcher) Search(_ context.Context, term string) ([]domain.ClientMatch, error) {
	f.mu.Lock()
	f.calls = append(f.calls, term)
	gate := f.gates[term]
	f.mu.Unlock()

	if gate != nil {
		f.started <- term
		<-gate
	}
	return []domain.ClientMatch{{ID: term, DisplayName: term}}, nil
}

func (f *fakeSearcher) searched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeHistory struct{}

func (fakeHistory) OrdersForClient(_ context.Context, clientID string) ([]domain.SaleRecord, error) {
	return []domain.SaleRecord{{ID: "s-" + clientID, ClientID: clientID}}, nil
}

func newTestSession(agg *fakeAggregator, searcher *fakeSearcher, delay time.Duration) *Session {
	return newSession("sess", "u1", Dependencies{
		Aggregator:    agg,
		Searcher:      searcher,
		History:       fakeHistory{},
		DebounceDelay: delay,
	}, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
}

func TestSession_DefaultRangeAndRefresh(t *testing.T) {
	agg := &fakeAggregator{}
	s := newTestSession(agg, &fakeSearcher{}, 0)
	defer s.Close()

	r := s.DateRange()
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), r.End)

	s.Refresh()
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 2500.0, snap.Revenue.Value)
	assert.Equal(t, "A", snap.TopProducts.Value[0].ProductName)
	assert.Equal(t, "B", snap.BottomProducts.Value[0].ProductName)
	require.NotNil(t, snap.ClientOfTheRange.Value)
	assert.Equal(t, "c1", snap.ClientOfTheRange.Value.ClientID)
	assert.Len(t, snap.Orders.Value, 1)
	assert.False(t, snap.Revenue.Loading)
}

func TestSession_SetDateRange(t *testing.T) {
	agg := &fakeAggregator{}
	s := newTestSession(agg, &fakeSearcher{}, 0)
	defer s.Close()

	start := time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)
	r, err := s.SetDateRange(&start, nil)
	require.NoError(t, err)
	s.Wait()

	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 3, 20, 23, 59, 59, 999999999, time.UTC), r.End)
	assert.Equal(t, r, agg.lastRange())

	end := time.Date(2024, 3, 25, 8, 0, 0, 0, time.UTC)
	r, err = s.SetDateRange(nil, &end)
	require.NoError(t, err)
	s.Wait()

	assert.Equal(t, time.Date(2024, 3, 25, 23, 59, 59, 999999999, time.UTC), r.End)
	assert.Equal(t, r, agg.lastRange())
}

func TestSession_FailedLoadShowsError(t *testing.T) {
	agg := &fakeAggregator{err: errors.New("store indisponível")}
	s := newTestSession(agg, &fakeSearcher{}, 0)
	defer s.Close()

	s.Refresh()
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, apiErrors.FailedToLoadMessage, snap.Revenue.Error)
	assert.Equal(t, 0.0, snap.Revenue.Value)
	assert.Empty(t, snap.TopProducts.Value)
	assert.Nil(t, snap.ClientOfTheRange.Value)
}

func TestSession_StaleSearchIsDiscarded(t *testing.T) {
	searcher := &fakeSearcher{
		gates:   map[string]chan struct{}{"a": make(chan struct{})},
		started: make(chan string, 1),
	}
	s := newTestSession(&fakeAggregator{}, searcher, 0)
	defer s.Close()

	require.NoError(t, s.SetSearchTerm("a"))
	assert.Equal(t, "a", <-searcher.started)

	require.NoError(t, s.SetSearchTerm("ab"))
	assert.Eventually(t, func() bool {
		results := s.Snapshot().SearchResults
		return !results.Loading && len(results.Value) == 1 && results.Value[0].ID == "ab"
	}, time.Second, 5*time.Millisecond)

	close(searcher.gates["a"])
	s.Wait()

	results := s.Snapshot().SearchResults
	require.Len(t, results.Value, 1)
	assert.Equal(t, "ab", results.Value[0].ID)
	assert.Equal(t, "ab", s.Snapshot().SearchTerm)
}

func TestSession_SearchIsDebounced(t *testing.T) {
	searcher := &fakeSearcher{}
	s := newTestSession(&fakeAggregator{}, searcher, 40*time.Millisecond)
	defer s.Close()

	for _, term := range []string{"a", "an", "ana"} {
		require.NoError(t, s.SetSearchTerm(term))
	}

	assert.Eventually(t, func() bool {
		results := s.Snapshot().SearchResults
		return len(results.Value) == 1 && results.Value[0].ID == "ana"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"ana"}, searcher.searched())
}

func TestSession_EmptySearchClearsResults(t *testing.T) {
	searcher := &fakeSearcher{}
	s := newTestSession(&fakeAggregator{}, searcher, time.Hour)
	defer s.Close()

	require.NoError(t, s.SetSearchTerm("lu"))
	require.NoError(t, s.SetSearchTerm(""))

	results := s.Snapshot().SearchResults
	assert.False(t, results.Loading)
	assert.Empty(t, results.Value)
	assert.Empty(t, searcher.searched())
}

func TestSession_SelectClient(t *testing.T) {
	s := newTestSession(&fakeAggregator{}, &fakeSearcher{}, 0)
	defer s.Close()

	require.NoError(t, s.SelectClient("c1"))
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, "c1", snap.SelectedClientID)
	require.Len(t, snap.ClientOrders.Value, 1)
	assert.Equal(t, "s-c1", snap.ClientOrders.Value[0].ID)

	require.NoError(t, s.SelectClient(""))
	assert.Empty(t, s.Snapshot().ClientOrders.Value)
}

func TestSession_Closed(t *testing.T) {
	s := newTestSession(&fakeAggregator{}, &fakeSearcher{}, 0)
	s.Close()

	_, err := s.SetDateRange(nil, nil)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.SetSearchTerm("a"), ErrClosed)
	assert.ErrorIs(t, s.SelectClient("c1"), ErrClosed)
	assert.True(t, s.Closed())
}

func TestSession_NoTrackingAfterClose(t *testing.T) {
	s := newTestSession(&fakeAggregator{}, &fakeSearcher{}, 0)

	require.True(t, s.track())
	s.inflight.Done()

	s.Close()

	assert.False(t, s.track())
	s.Refresh()
	s.Wait()
}

func TestSession_CloseWhileDebouncedSearchFires(t *testing.T) {
	for i := 0; i < 50; i++ {
		searcher := &fakeSearcher{}
		s := newTestSession(&fakeAggregator{}, searcher, 0)
		require.NoError(t, s.SetSearchTerm("ana"))

		done := make(chan struct{})
		go func() {
			s.Close()
			s.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Wait não retornou depois do Close")
		}
		assert.LessOrEqual(t, len(searcher.searched()), 1)
	}
}
