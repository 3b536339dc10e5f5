// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nomes das coleções no document store
const (
	SaleCollection    = "Sale"
	ClientCollection  = "Client"
	ProductCollection = "Product"
	UserCollection    = "User"
)

// Campos da coleção Sale
const (
	SaleFieldDate          = "fecha"
	SaleFieldDeliveryDate  = "fechaEntrega"
	SaleFieldClientID      = "clientId"
	SaleFieldClientName    = "clientName"
	SaleFieldTotal         = "totalVenta"
	SaleFieldProducts      = "products"
	SaleFieldSaleStatus    = "estadoVenta"
	SaleFieldPaymentStatus = "estadoPago"

	LineItemFieldName     = "nombre"
	LineItemFieldPrice    = "precioVenta"
	LineItemFieldQuantity = "cantidad"
)

const (
	StatusNotAvailable = "N/A"
	UnknownProduct     = "Producto Desconocido"
	UnknownClient      = "Cliente Desconocido"
)

// LineItem é um produto dentro de uma venda
type LineItem struct {
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

// Value retorna unitPrice * quantity sem erro de arredondamento acumulado
func (l LineItem) Value() decimal.Decimal {
	return decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SaleRecord representa uma venda concluída já normalizada
type SaleRecord struct {
	ID            string     `json:"id"`
	Date          time.Time  `json:"date"`
	DeliveryDate  *time.Time `json:"delivery_date"`
	ClientID      string     `json:"client_id,omitempty"`
	ClientName    string     `json:"client_name"`
	LineItems     []LineItem `json:"line_items"`
	SaleStatus    string     `json:"sale_status"`
	PaymentStatus string     `json:"payment_status"`
	// TotalValue é o total declarado no documento, pode divergir da soma dos itens
	TotalValue float64 `json:"total_value"`
}

// HasClient indica se a venda está vinculada a um cliente
func (s SaleRecord) HasClient() bool {
	return s.ClientID != ""
}

// LineItemsTotal soma unitPrice * quantity de todos os itens
func (s SaleRecord) LineItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.LineItems {
		total = total.Add(item.Value())
	}
	return total
}

// OrderSummary é a linha exibida na listagem de pedidos
type OrderSummary struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Date       time.Time `json:"date"`
	Total      float64   `json:"total"`
}
