// Package searching implementa a busca de clientes por prefixo de nome ou sobrenome.
package searching

import (
	"context"
	"strings"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

type Searcher interface {
	// Search retorna os clientes cujo nombres ou apellidos começa com o termo normalizado
	Search(ctx context.Context, partial string) ([]domain.ClientMatch, error)
}

type Service struct {
	gateway docstore.Gateway
	logger  log.Logger
}

func NewService(gateway docstore.Gateway) Searcher {
	return &Service{
		gateway: gateway,
		logger:  log.L.WithComponent("searching"),
	}
}

// NormalizeQuery deixa a primeira letra maiúscula e o restante minúsculo
func NormalizeQuery(partial string) string {
	if partial == "" {
		return ""
	}
	runes := []rune(partial)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}

func (s *Service) Search(ctx context.Context, partial string) ([]domain.ClientMatch, error) {
	if partial == "" {
		return []domain.ClientMatch{}, nil
	}

	term := NormalizeQuery(partial)
	logger := s.logger.WithContext(ctx).WithField("term", term)

	matches := make([]domain.ClientMatch, 0)
	seen := make(map[string]struct{})

	for _, field := range []string{domain.ClientFieldGivenNames, domain.ClientFieldSurnames} {
		docs, err := s.gateway.Find(ctx, docstore.Query{
			Collection: domain.ClientCollection,
			Filters:    docstore.PrefixFilters(field, term),
		})
		if err != nil {
			logger.WithError(err).WithField("field", field).Error("Erro ao buscar clientes")
			return nil, docstore.NewQueryError(domain.ClientCollection, err)
		}

		for _, doc := range docs {
			if _, ok := seen[doc.ID]; ok {
				continue
			}
			seen[doc.ID] = struct{}{}

			client := normalizing.Client(doc)
			matches = append(matches, domain.ClientMatch{
				ID:          client.ID,
				DisplayName: client.DisplayName(),
			})
		}
	}

	logger.Debugf("%d clientes encontrados", len(matches))
	return matches, nil
}
