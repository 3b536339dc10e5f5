package cataloging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/cataloging"
	"go.uber.org/mock/gomock"
)

func TestListProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)

	gw.EXPECT().
		Find(gomock.Any(), docstore.Query{Collection: "Product", OrderBy: "nombre"}).
		Return([]docstore.Document{
			{ID: "p1", Fields: map[string]any{"nombre": "Arepa", "precioVenta": "2500", "estado": "Activo"}},
			{ID: "p2", Fields: map[string]any{"nombre": "Café", "categoria": "Bebidas"}},
		}, nil)

	products, err := cataloging.NewService(gw).ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Arepa", products[0].Name)
	assert.Equal(t, 2500.0, products[0].SalePrice)
	assert.Equal(t, "Bebidas", products[1].Category)
	assert.Equal(t, 0.0, products[1].SalePrice)
}

func TestListProducts_QueryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	gw.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	products, err := cataloging.NewService(gw).ListProducts(context.Background())

	assert.Nil(t, products)
	assert.ErrorIs(t, err, docstore.ErrQuery)
}
