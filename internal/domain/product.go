package domain

// Campos da coleção Product
const (
	ProductFieldName           = "nombre"
	ProductFieldCategory       = "categoria"
	ProductFieldStatus         = "estado"
	ProductFieldSalePrice      = "precioVenta"
	ProductFieldSuggestedPrice = "precioSugerido"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSortDirection aceita "asc" ou "desc", qualquer outro valor vira desc
func ParseSortDirection(s string) SortDirection {
	if SortDirection(s) == SortAscending {
		return SortAscending
	}
	return SortDescending
}

// ProductSales é a quantidade vendida de um produto no período
type ProductSales struct {
	ProductName string `json:"product_name"`
	UnitsSold   int    `json:"units_sold"`
}

type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	SalePrice      float64 `json:"sale_price"`
	SuggestedPrice float64 `json:"suggested_price"`
}
