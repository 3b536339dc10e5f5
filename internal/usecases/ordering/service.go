// Package ordering consulta o histórico de pedidos de um cliente.
package ordering

import (
	"context"
	"sort"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

type OrderHistory interface {
	// OrdersForClient retorna todas as vendas do cliente, mais recentes primeiro
	OrdersForClient(ctx context.Context, clientID string) ([]domain.SaleRecord, error)
}

type Service struct {
	gateway docstore.Gateway
	logger  log.Logger
}

func NewService(gateway docstore.Gateway) OrderHistory {
	return &Service{
		gateway: gateway,
		logger:  log.L.WithComponent("ordering"),
	}
}

func (s *Service) OrdersForClient(ctx context.Context, clientID string) ([]domain.SaleRecord, error) {
	if clientID == "" {
		return []domain.SaleRecord{}, nil
	}

	docs, err := s.gateway.Find(ctx, docstore.Query{
		Collection: domain.SaleCollection,
		Filters:    []docstore.Filter{{Field: domain.SaleFieldClientID, Op: docstore.OpEq, Value: clientID}},
		OrderBy:    domain.SaleFieldDate,
		Descending: true,
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("client_id", clientID).Error("Erro ao buscar pedidos do cliente")
		return nil, docstore.NewQueryError(domain.SaleCollection, err)
	}

	orders := make([]domain.SaleRecord, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, normalizing.Sale(doc))
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})

	return orders, nil
}
