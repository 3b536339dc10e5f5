// Package session mantém o estado do painel de cada usuário logado: o período
// selecionado, o termo de busca, o cliente escolhido e o último resultado de cada view.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ordering"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/searching"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var ErrClosed = errors.New("sessão encerrada")

type Dependencies struct {
	Aggregator    aggregating.Aggregator
	Searcher      searching.Searcher
	History       ordering.OrderHistory
	DebounceDelay time.Duration
	TopN          int
}

type Snapshot struct {
	SessionID        string                          `json:"session_id"`
	DateRange        domain.DateRange                `json:"date_range"`
	SearchTerm       string                          `json:"search_term"`
	SelectedClientID string                          `json:"selected_client_id,omitempty"`
	Revenue          State[float64]                  `json:"revenue"`
	TopProducts      State[[]domain.ProductSales]    `json:"top_products"`
	BottomProducts   State[[]domain.ProductSales]    `json:"bottom_products"`
	ClientOfTheRange State[*domain.ClientOfTheRange] `json:"client_of_the_range"`
	Orders           State[[]domain.OrderSummary]    `json:"orders"`
	SearchResults    State[[]domain.ClientMatch]     `json:"search_results"`
	ClientOrders     State[[]domain.SaleRecord]      `json:"client_orders"`
}

type Session struct {
	ID     string
	UserID string

	deps      Dependencies
	ctx       context.Context
	cancel    context.CancelFunc
	debouncer *Debouncer
	logger    log.Logger
	inflight  sync.WaitGroup

	mu             sync.Mutex
	dateRange      domain.DateRange
	searchTerm     string
	selectedClient string
	lastActivity   time.Time
	closed         bool

	revenue        *View[float64]
	topProducts    *View[[]domain.ProductSales]
	bottomProducts *View[[]domain.ProductSales]
	clientOfRange  *View[*domain.ClientOfTheRange]
	orders         *View[[]domain.OrderSummary]
	search         *View[[]domain.ClientMatch]
	history        *View[[]domain.SaleRecord]
}

func newSession(id, userID string, deps Dependencies, opened time.Time) *Session {
	if deps.TopN <= 0 {
		deps.TopN = aggregating.DefaultTopN
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctx, _ = log.WithCorrelationID(ctx)

	return &Session{
		ID:             id,
		UserID:         userID,
		deps:           deps,
		ctx:            ctx,
		cancel:         cancel,
		debouncer:      NewDebouncer(deps.DebounceDelay),
		logger:         log.L.WithComponent("session").WithField("session_id", id),
		dateRange:      domain.DefaultDateRange(opened),
		lastActivity:   opened,
		revenue:        NewView(0.0),
		topProducts:    NewView([]domain.ProductSales{}),
		bottomProducts: NewView([]domain.ProductSales{}),
		clientOfRange:  NewView[*domain.ClientOfTheRange](nil),
		orders:         NewView([]domain.OrderSummary{}),
		search:         NewView([]domain.ClientMatch{}),
		history:        NewView([]domain.SaleRecord{}),
	}
}

func (s *Session) DateRange() domain.DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dateRange
}

// SetDateRange troca início e/ou fim do período e recarrega todas as views do período
func (s *Session) SetDateRange(start, end *time.Time) (domain.DateRange, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.DateRange{}, ErrClosed
	}
	r := s.dateRange
	if start != nil {
		r = r.WithStart(*start)
	}
	if end != nil {
		r = r.WithEnd(*end)
	}
	s.dateRange = r
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{"start": r.Start, "end": r.End}).Debug("Período alterado")
	s.Refresh()
	return r, nil
}

// Refresh dispara novamente as consultas das views do período atual
func (s *Session) Refresh() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	r := s.dateRange
	s.mu.Unlock()

	agg := s.deps.Aggregator
	n := s.deps.TopN

	load(s, s.revenue, func(ctx context.Context) (float64, error) {
		return agg.TotalRevenue(ctx, r)
	})
	load(s, s.topProducts, func(ctx context.Context) ([]domain.ProductSales, error) {
		return agg.TopProducts(ctx, r, n, domain.SortDescending)
	})
	load(s, s.bottomProducts, func(ctx context.Context) ([]domain.ProductSales, error) {
		return agg.TopProducts(ctx, r, n, domain.SortAscending)
	})
	load(s, s.clientOfRange, func(ctx context.Context) (*domain.ClientOfTheRange, error) {
		return agg.ClientOfTheRange(ctx, r)
	})
	load(s, s.orders, func(ctx context.Context) ([]domain.OrderSummary, error) {
		return agg.OrdersInRange(ctx, r)
	})
}

// SetSearchTerm agenda a busca com debounce. O ticket é reservado na hora,
// então uma resposta de um termo anterior nunca sobrescreve a do termo mais novo.
func (s *Session) SetSearchTerm(term string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.searchTerm = term
	s.mu.Unlock()

	if term == "" {
		s.debouncer.Cancel()
		s.search.Reset([]domain.ClientMatch{})
		return nil
	}

	ticket := s.search.Begin(s.ctx)
	searcher := s.deps.Searcher
	s.debouncer.Trigger(func() {
		if !s.track() {
			return
		}
		defer s.inflight.Done()

		applied := s.search.Run(ticket, func(ctx context.Context) ([]domain.ClientMatch, error) {
			return searcher.Search(ctx, term)
		})
		if !applied {
			s.logger.WithField("term", term).Debug("Resultado de busca descartado")
		}
	})

	return nil
}

// SelectClient carrega o histórico de pedidos do cliente; id vazio limpa a seleção
func (s *Session) SelectClient(clientID string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.selectedClient = clientID
	s.mu.Unlock()

	if clientID == "" {
		s.history.Reset([]domain.SaleRecord{})
		return nil
	}

	history := s.deps.History
	load(s, s.history, func(ctx context.Context) ([]domain.SaleRecord, error) {
		return history.OrdersForClient(ctx, clientID)
	})
	return nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		SessionID:        s.ID,
		DateRange:        s.dateRange,
		SearchTerm:       s.searchTerm,
		SelectedClientID: s.selectedClient,
	}
	s.mu.Unlock()

	snap.Revenue = s.revenue.State()
	snap.TopProducts = s.topProducts.State()
	snap.BottomProducts = s.bottomProducts.State()
	snap.ClientOfTheRange = s.clientOfRange.State()
	snap.Orders = s.orders.State()
	snap.SearchResults = s.search.State()
	snap.ClientOrders = s.history.State()
	return snap
}

func (s *Session) Touch(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if at.After(s.lastActivity) {
		s.lastActivity = at
	}
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancela consultas em andamento e a busca pendente; respostas tardias são descartadas
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debouncer.Stop()
	s.cancel()

	s.revenue.Stop()
	s.topProducts.Stop()
	s.bottomProducts.Stop()
	s.clientOfRange.Stop()
	s.orders.Stop()
	s.search.Stop()
	s.history.Stop()
}

// Wait bloqueia até as consultas já iniciadas terminarem
func (s *Session) Wait() {
	s.inflight.Wait()
}

// track registra uma consulta em andamento se a sessão ainda estiver aberta.
// Close marca closed sob o mesmo lock antes de qualquer Wait, então nenhum Add
// acontece depois que Wait começou.
func (s *Session) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.inflight.Add(1)
	return true
}

func load[T any](s *Session, v *View[T], fn func(ctx context.Context) (T, error)) {
	ticket := v.Begin(s.ctx)

	if !s.track() {
		return
	}
	go func() {
		defer s.inflight.Done()
		v.Run(ticket, fn)
	}()
}
