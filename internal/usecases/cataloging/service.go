// Package cataloging lista o catálogo de produtos.
package cataloging

import (
	"context"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

type Catalog interface {
	// ListProducts retorna os produtos ordenados por nome
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	gateway docstore.Gateway
	logger  log.Logger
}

func NewService(gateway docstore.Gateway) Catalog {
	return &Service{
		gateway: gateway,
		logger:  log.L.WithComponent("cataloging"),
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	docs, err := s.gateway.Find(ctx, docstore.Query{
		Collection: domain.ProductCollection,
		OrderBy:    domain.ProductFieldName,
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Erro ao listar produtos")
		return nil, docstore.NewQueryError(domain.ProductCollection, err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, normalizing.Product(doc))
	}

	return products, nil
}
