package normalizing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{name: "número", input: 500.0, expected: 500},
		{name: "inteiro", input: 3, expected: 3},
		{name: "string numérica", input: "1000", expected: 1000},
		{name: "string com sufixo", input: "12.5abc", expected: 12.5},
		{name: "string com espaços", input: "  7 ", expected: 7},
		{name: "expoente", input: "1e3", expected: 1000},
		{name: "string não numérica", input: "abc", expected: 0},
		{name: "string vazia", input: "", expected: 0},
		{name: "ausente", input: nil, expected: 0},
		{name: "booleano", input: true, expected: 0},
		{name: "objeto", input: map[string]any{"x": 1}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Float(tt.input))
		})
	}
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, 2, Quantity(2.0))
	assert.Equal(t, 3, Quantity(3.9))
	assert.Equal(t, 4, Quantity("4"))
	assert.Equal(t, 0, Quantity(nil))
	assert.Equal(t, 0, Quantity("muitos"))
}

func TestInstant(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), Instant("2024-03-05T14:30:00.000Z"))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Instant("2024-03-05"))
	assert.Equal(t, Epoch, Instant(nil))
	assert.Equal(t, Epoch, Instant("ontem"))
	assert.Equal(t, Epoch, Instant(12345))
}

func TestSale_WellFormed(t *testing.T) {
	doc := docstore.Document{
		ID: "s1",
		Fields: map[string]any{
			"fecha":        "2024-03-05T14:30:00.000Z",
			"fechaEntrega": "2024-03-07T10:00:00.000Z",
			"clientId":     "c1",
			"clientName":   "Ana Pérez",
			"totalVenta":   "2500",
			"estadoVenta":  "Entregado",
			"estadoPago":   "Pagado",
			"products": []any{
				map[string]any{"nombre": "A", "precioVenta": "1000", "cantidad": 2.0},
				map[string]any{"nombre": "B", "precioVenta": 500.0, "cantidad": 1.0},
			},
		},
	}

	sale := Sale(doc)

	assert.Equal(t, "s1", sale.ID)
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), sale.Date)
	require.NotNil(t, sale.DeliveryDate)
	assert.Equal(t, 7, sale.DeliveryDate.Day())
	assert.Equal(t, "c1", sale.ClientID)
	assert.True(t, sale.HasClient())
	assert.Equal(t, 2500.0, sale.TotalValue)
	assert.Equal(t, []domain.LineItem{
		{ProductName: "A", UnitPrice: 1000, Quantity: 2},
		{ProductName: "B", UnitPrice: 500, Quantity: 1},
	}, sale.LineItems)
	assert.Equal(t, "2500", sale.LineItemsTotal().String())
}

func TestSale_MalformedNeverFails(t *testing.T) {
	docs := []docstore.Document{
		{ID: "vazio", Fields: map[string]any{}},
		{ID: "nil", Fields: nil},
		{ID: "produtos-invalidos", Fields: map[string]any{"products": "não é lista"}},
		{ID: "itens-quebrados", Fields: map[string]any{
			"fecha":      12,
			"totalVenta": "grátis",
			"products": []any{
				map[string]any{"nombre": "A", "precioVenta": "caro"},
				"item solto",
				nil,
			},
		}},
	}

	for _, doc := range docs {
		t.Run(doc.ID, func(t *testing.T) {
			var sale domain.SaleRecord
			require.NotPanics(t, func() { sale = Sale(doc) })

			assert.Equal(t, Epoch, sale.Date)
			assert.Nil(t, sale.DeliveryDate)
			assert.Equal(t, 0.0, sale.TotalValue)
			assert.Equal(t, domain.StatusNotAvailable, sale.SaleStatus)
			assert.Equal(t, domain.StatusNotAvailable, sale.PaymentStatus)
			assert.Equal(t, domain.UnknownClient, sale.ClientName)
			assert.False(t, sale.HasClient())
			assert.True(t, sale.LineItemsTotal().IsZero())
			for _, item := range sale.LineItems {
				assert.Equal(t, 0, item.Quantity)
				assert.Equal(t, 0.0, item.UnitPrice)
			}
		})
	}
}

func TestSale_UnknownProductName(t *testing.T) {
	sale := Sale(docstore.Document{Fields: map[string]any{
		"products": []any{map[string]any{"cantidad": 3.0}},
	}})

	require.Len(t, sale.LineItems, 1)
	assert.Equal(t, domain.UnknownProduct, sale.LineItems[0].ProductName)
	assert.Equal(t, 3, sale.LineItems[0].Quantity)
}

func TestClientAndUser(t *testing.T) {
	client := Client(docstore.Document{ID: "c1", Fields: map[string]any{"nombres": "Ana María", "apellidos": "Pérez"}})
	assert.Equal(t, domain.Client{ID: "c1", GivenNames: "Ana María", Surnames: "Pérez"}, client)

	user := User(docstore.Document{ID: "u1", Fields: map[string]any{"email": " Admin@Loja.com ", "passwordHash": "hash"}})
	assert.Equal(t, "admin@loja.com", user.Email)
	assert.True(t, user.Active)

	disabled := User(docstore.Document{ID: "u2", Fields: map[string]any{"activo": false}})
	assert.False(t, disabled.Active)
}

func TestProduct(t *testing.T) {
	product := Product(docstore.Document{ID: "p1", Fields: map[string]any{
		"nombre":         "Café",
		"categoria":      "Bebidas",
		"precioVenta":    "3500",
		"precioSugerido": 4000.0,
	}})

	assert.Equal(t, "Café", product.Name)
	assert.Equal(t, domain.StatusNotAvailable, product.Status)
	assert.Equal(t, 3500.0, product.SalePrice)
	assert.Equal(t, 4000.0, product.SuggestedPrice)
}
