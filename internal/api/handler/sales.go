package handler

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

type OrderResponse struct {
	domain.OrderSummary
	FormattedTotal string `json:"formatted_total"`
}

type ClientOfTheRangeResponse struct {
	domain.ClientOfTheRange
	FormattedTotal string `json:"formatted_total"`
}

type ProductResponse struct {
	domain.Product
	FormattedSalePrice string `json:"formatted_sale_price"`
}

func GetRevenue(service aggregating.Aggregator, formatter *utils.MoneyFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dateRange, err := requestRange(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use YYYY-MM-DD", nil)
			return
		}

		revenue, err := service.TotalRevenue(r.Context(), dateRange)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"date_range": dateRange,
			"revenue":    newMoney(formatter, revenue),
		})
	}
}

// GetTopProducts aceita limit (padrão 5) e direction asc|desc (padrão desc)
func GetTopProducts(service aggregating.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dateRange, err := requestRange(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use YYYY-MM-DD", nil)
			return
		}

		limit := aggregating.DefaultTopN
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve ser um inteiro positivo", nil)
				return
			}
		}
		direction := domain.ParseSortDirection(r.URL.Query().Get("direction"))

		products, err := service.TopProducts(r.Context(), dateRange, limit, direction)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"date_range": dateRange,
			"direction":  direction,
			"products":   products,
		})
	}
}

func GetTopClient(service aggregating.Aggregator, formatter *utils.MoneyFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dateRange, err := requestRange(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use YYYY-MM-DD", nil)
			return
		}

		client, err := service.ClientOfTheRange(r.Context(), dateRange)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		var response *ClientOfTheRangeResponse
		if client != nil {
			response = &ClientOfTheRangeResponse{
				ClientOfTheRange: *client,
				FormattedTotal:   formatter.Format(client.TotalValue),
			}
		}

		writeJSON(w, map[string]any{
			"date_range": dateRange,
			"client":     response,
		})
	}
}

func GetOrders(service aggregating.Aggregator, formatter *utils.MoneyFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dateRange, err := requestRange(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use YYYY-MM-DD", nil)
			return
		}

		orders, err := service.OrdersInRange(r.Context(), dateRange)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			response = append(response, OrderResponse{
				OrderSummary:   order,
				FormattedTotal: formatter.Format(order.Total),
			})
		}

		log.ForContext(r.Context()).WithField("orders", len(response)).Debug("Pedidos do período listados")
		writeJSON(w, map[string]any{
			"date_range": dateRange,
			"orders":     response,
		})
	}
}

func ListProducts(service cataloging.Catalog, formatter *utils.MoneyFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := service.ListProducts(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar produtos")
			writeServiceError(w, err)
			return
		}

		response := make([]ProductResponse, 0, len(products))
		for _, product := range products {
			response = append(response, ProductResponse{
				Product:            product,
				FormattedSalePrice: formatter.Format(product.SalePrice),
			})
		}

		writeJSON(w, response)
	}
}
