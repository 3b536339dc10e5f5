// Package aggregating calcula as métricas do painel sobre as vendas de um período.
package aggregating

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// DefaultTopN é o tamanho do ranking de produtos quando n não é informado
const DefaultTopN = 5

// Aggregator define as métricas calculadas sobre as vendas de um período
type Aggregator interface {
	// TotalRevenue soma precioVenta * cantidad de todos os itens das vendas do período
	TotalRevenue(ctx context.Context, r domain.DateRange) (float64, error)

	// TopProducts agrupa unidades vendidas por nome de produto e retorna os n primeiros na direção pedida
	TopProducts(ctx context.Context, r domain.DateRange, n int, direction domain.SortDirection) ([]domain.ProductSales, error)

	// ClientOfTheRange retorna o cliente com maior receita de itens (precioVenta * cantidad) no período, ou nil
	ClientOfTheRange(ctx context.Context, r domain.DateRange) (*domain.ClientOfTheRange, error)

	// OrdersInRange lista as vendas do período, mais recentes primeiro
	OrdersInRange(ctx context.Context, r domain.DateRange) ([]domain.OrderSummary, error)
}

type Service struct {
	gateway docstore.Gateway
	logger  log.Logger
}

func NewService(gateway docstore.Gateway) Aggregator {
	return &Service{
		gateway: gateway,
		logger:  log.L.WithComponent("aggregating"),
	}
}

func (s *Service) TotalRevenue(ctx context.Context, r domain.DateRange) (float64, error) {
	sales, err := s.salesInRange(ctx, r, false)
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.LineItemsTotal())
	}

	return total.InexactFloat64(), nil
}

func (s *Service) TopProducts(ctx context.Context, r domain.DateRange, n int, direction domain.SortDirection) ([]domain.ProductSales, error) {
	if n <= 0 {
		n = DefaultTopN
	}

	sales, err := s.salesInRange(ctx, r, false)
	if err != nil {
		return nil, err
	}

	units := make(map[string]int)
	for _, sale := range sales {
		for _, item := range sale.LineItems {
			units[item.ProductName] += item.Quantity
		}
	}

	ranking := make([]domain.ProductSales, 0, len(units))
	for name, sold := range units {
		ranking = append(ranking, domain.ProductSales{ProductName: name, UnitsSold: sold})
	}

	// empate sempre desempata por nome, nas duas direções
	sort.Slice(ranking, func(i, j int) bool {
		a, b := ranking[i], ranking[j]
		if a.UnitsSold != b.UnitsSold {
			if direction == domain.SortAscending {
				return a.UnitsSold < b.UnitsSold
			}
			return a.UnitsSold > b.UnitsSold
		}
		return a.ProductName < b.ProductName
	})

	if len(ranking) > n {
		ranking = ranking[:n]
	}

	return ranking, nil
}

func (s *Service) ClientOfTheRange(ctx context.Context, r domain.DateRange) (*domain.ClientOfTheRange, error) {
	sales, err := s.salesInRange(ctx, r, false)
	if err != nil {
		return nil, err
	}

	type accumulator struct {
		name   string
		total  decimal.Decimal
		orders int
	}

	byClient := make(map[string]*accumulator)
	for _, sale := range sales {
		if !sale.HasClient() {
			continue
		}
		acc, ok := byClient[sale.ClientID]
		if !ok {
			acc = &accumulator{name: sale.ClientName, total: decimal.Zero}
			byClient[sale.ClientID] = acc
		}
		acc.total = acc.total.Add(sale.LineItemsTotal())
		acc.orders++
	}

	var best *domain.ClientOfTheRange
	bestTotal := decimal.Zero
	for id, acc := range byClient {
		// o máximo parte de zero: total zero ou negativo nunca vence
		cmp := acc.total.Cmp(bestTotal)
		if cmp < 0 || (cmp == 0 && (best == nil || !precedes(acc.name, id, best))) {
			continue
		}
		bestTotal = acc.total
		best = &domain.ClientOfTheRange{
			ClientID:    id,
			DisplayName: acc.name,
			TotalValue:  acc.total.InexactFloat64(),
			OrderCount:  acc.orders,
		}
	}

	return best, nil
}

// precedes decide empates de total pelo nome e depois pelo id
func precedes(name, id string, current *domain.ClientOfTheRange) bool {
	if name != current.DisplayName {
		return name < current.DisplayName
	}
	return id < current.ClientID
}

func (s *Service) OrdersInRange(ctx context.Context, r domain.DateRange) ([]domain.OrderSummary, error) {
	sales, err := s.salesInRange(ctx, r, true)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.OrderSummary, 0, len(sales))
	for _, sale := range sales {
		orders = append(orders, domain.OrderSummary{
			ID:         sale.ID,
			ClientName: sale.ClientName,
			Date:       sale.Date,
			Total:      sale.TotalValue,
		})
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})

	return orders, nil
}

func (s *Service) salesInRange(ctx context.Context, r domain.DateRange, newestFirst bool) ([]domain.SaleRecord, error) {
	rq := docstore.RangeQuery{
		Collection: domain.SaleCollection,
		DateField:  domain.SaleFieldDate,
		Start:      r.Start,
		End:        r.End,
	}
	if newestFirst {
		rq.OrderBy = domain.SaleFieldDate
		rq.Descending = true
	}

	docs, err := docstore.FetchByRange(ctx, s.gateway, rq)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(log.Fields{
			"start": docstore.ToISO(r.Start),
			"end":   docstore.ToISO(r.End),
		}).Error("Erro ao buscar vendas do período")
		return nil, err
	}

	sales := make([]domain.SaleRecord, 0, len(docs))
	for _, doc := range docs {
		sales = append(sales, normalizing.Sale(doc))
	}

	s.logger.WithContext(ctx).Debugf("%d vendas carregadas no período", len(sales))
	return sales, nil
}
