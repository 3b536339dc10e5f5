package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ordering"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/searching"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

type ClientOrderResponse struct {
	domain.SaleRecord
	FormattedTotal string `json:"formatted_total"`
}

// SearchClients busca por prefixo de nombres ou apellidos; q vazio retorna lista vazia
func SearchClients(service searching.Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")

		matches, err := service.Search(r.Context(), query)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"query":   searching.NormalizeQuery(query),
			"clients": matches,
		})
	}
}

func GetClientOrders(service ordering.OrderHistory, formatter *utils.MoneyFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		orders, err := service.OrdersForClient(r.Context(), clientID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response := make([]ClientOrderResponse, 0, len(orders))
		for _, order := range orders {
			response = append(response, ClientOrderResponse{
				SaleRecord:     order,
				FormattedTotal: formatter.Format(order.TotalValue),
			})
		}

		writeJSON(w, map[string]any{
			"client_id": clientID,
			"orders":    response,
		})
	}
}
