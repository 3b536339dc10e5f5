package handler

import (
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Money é um valor monetário acompanhado da versão formatada para exibição
type Money struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

func newMoney(formatter *utils.MoneyFormatter, value float64) Money {
	return Money{Value: utils.RoundWithTwoDecimalPlace(value), Formatted: formatter.Format(value)}
}

func writeJSON(w http.ResponseWriter, payload any) {
	writeJSONStatus(w, http.StatusOK, payload)
}

func writeJSONStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeServiceError traduz falhas do document store em 502 e o resto em 500
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, docstore.ErrQuery) {
		apiErrors.WriteError(w, apiErrors.ErrQueryFailed, apiErrors.FailedToLoadMessage, nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno do servidor", nil)
}

// requestRange lê start/end (YYYY-MM-DD) da query; o que faltar vem do período da sessão
func requestRange(r *http.Request) (domain.DateRange, error) {
	var base domain.DateRange
	if s, ok := middleware.SessionFromContext(r.Context()); ok {
		base = s.DateRange()
	} else {
		base = domain.DefaultDateRange(time.Now())
	}

	start, err := utils.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := utils.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		return domain.DateRange{}, err
	}

	if start != nil {
		base = base.WithStart(*start)
	}
	if end != nil {
		base = base.WithEnd(*end)
	}
	return base, nil
}
