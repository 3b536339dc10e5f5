// Package normalizing converte documentos brutos do store no formato canônico do domínio.
//
// Nenhuma função daqui retorna erro: campo ausente ou malformado vira o valor padrão
// documentado (0, época Unix, "N/A"), de modo que somas continuem definidas para qualquer entrada.
package normalizing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Epoch é a data usada quando o documento não tem data válida
var Epoch = time.Unix(0, 0).UTC()

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

var instantLayouts = []string{
	time.RFC3339Nano,
	docstore.ISOLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

func Sale(doc docstore.Document) domain.SaleRecord {
	f := doc.Fields

	sale := domain.SaleRecord{
		ID:            doc.ID,
		Date:          Instant(f[domain.SaleFieldDate]),
		ClientID:      stringField(f, domain.SaleFieldClientID),
		ClientName:    orDefault(stringField(f, domain.SaleFieldClientName), domain.UnknownClient),
		LineItems:     lineItems(f[domain.SaleFieldProducts]),
		SaleStatus:    orDefault(stringField(f, domain.SaleFieldSaleStatus), domain.StatusNotAvailable),
		PaymentStatus: orDefault(stringField(f, domain.SaleFieldPaymentStatus), domain.StatusNotAvailable),
		TotalValue:    Float(f[domain.SaleFieldTotal]),
	}

	if delivery, ok := instant(f[domain.SaleFieldDeliveryDate]); ok {
		sale.DeliveryDate = &delivery
	}

	return sale
}

func Client(doc docstore.Document) domain.Client {
	return domain.Client{
		ID:         doc.ID,
		GivenNames: stringField(doc.Fields, domain.ClientFieldGivenNames),
		Surnames:   stringField(doc.Fields, domain.ClientFieldSurnames),
	}
}

func Product(doc docstore.Document) domain.Product {
	f := doc.Fields
	return domain.Product{
		ID:             doc.ID,
		Name:           orDefault(stringField(f, domain.ProductFieldName), domain.UnknownProduct),
		Category:       stringField(f, domain.ProductFieldCategory),
		Status:         orDefault(stringField(f, domain.ProductFieldStatus), domain.StatusNotAvailable),
		SalePrice:      Float(f[domain.ProductFieldSalePrice]),
		SuggestedPrice: Float(f[domain.ProductFieldSuggestedPrice]),
	}
}

// User considera ativo o usuário sem o campo "activo"; só false explícito desativa
func User(doc docstore.Document) domain.User {
	f := doc.Fields

	active := true
	if v, ok := f[domain.UserFieldActive].(bool); ok {
		active = v
	}

	return domain.User{
		ID:           doc.ID,
		Name:         stringField(f, domain.UserFieldName),
		Email:        strings.ToLower(strings.TrimSpace(stringField(f, domain.UserFieldEmail))),
		PasswordHash: stringField(f, domain.UserFieldPasswordHash),
		Active:       active,
	}
}

func lineItems(raw any) []domain.LineItem {
	list, ok := raw.([]any)
	if !ok {
		return []domain.LineItem{}
	}

	items := make([]domain.LineItem, 0, len(list))
	for _, entry := range list {
		fields, _ := entry.(map[string]any)
		items = append(items, domain.LineItem{
			ProductName: orDefault(stringField(fields, domain.LineItemFieldName), domain.UnknownProduct),
			UnitPrice:   Float(fields[domain.LineItemFieldPrice]),
			Quantity:    Quantity(fields[domain.LineItemFieldQuantity]),
		})
	}

	return items
}

// Float segue parseFloat: aceita número ou o prefixo numérico de uma string, senão 0
func Float(v any) float64 {
	var f float64

	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		match := numericPrefix.FindString(strings.TrimSpace(n))
		if match == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Quantity trunca valores fracionários; ausente ou não numérico vira 0
func Quantity(v any) int {
	return int(math.Trunc(Float(v)))
}

// Instant interpreta a data gravada como string ISO; ausente ou inválida vira Epoch
func Instant(v any) time.Time {
	if t, ok := instant(v); ok {
		return t
	}
	return Epoch
}

func instant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range instantLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
