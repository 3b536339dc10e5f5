package searching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/searching"
	"go.uber.org/mock/gomock"
)

func client(id, given, surname string) docstore.Document {
	return docstore.Document{ID: id, Fields: map[string]any{"nombres": given, "apellidos": surname}}
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "Ana", searching.NormalizeQuery("ana"))
	assert.Equal(t, "Ana", searching.NormalizeQuery("ANA"))
	assert.Equal(t, "Ángel", searching.NormalizeQuery("áNGEL"))
	assert.Equal(t, "A", searching.NormalizeQuery("a"))
	assert.Equal(t, "", searching.NormalizeQuery(""))
}

func TestSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)

	gomock.InOrder(
		gw.EXPECT().
			Find(gomock.Any(), docstore.Query{
				Collection: "Client",
				Filters: []docstore.Filter{
					{Field: "nombres", Op: docstore.OpGte, Value: "Ana"},
					{Field: "nombres", Op: docstore.OpLt, Value: "Ana\uf8ff"},
				},
			}).
			Return([]docstore.Document{
				client("c1", "ana maría", "PÉREZ"),
				client("c2", "Anabel", "Anaya"),
			}, nil),
		gw.EXPECT().
			Find(gomock.Any(), docstore.Query{
				Collection: "Client",
				Filters: []docstore.Filter{
					{Field: "apellidos", Op: docstore.OpGte, Value: "Ana"},
					{Field: "apellidos", Op: docstore.OpLt, Value: "Ana\uf8ff"},
				},
			}).
			Return([]docstore.Document{
				client("c2", "Anabel", "Anaya"),
				client("c3", "Luis", "Anaya"),
			}, nil),
	)

	matches, err := searching.NewService(gw).Search(context.Background(), "ana")

	require.NoError(t, err)
	assert.Equal(t, []domain.ClientMatch{
		{ID: "c1", DisplayName: "Ana María Pérez"},
		{ID: "c2", DisplayName: "Anabel Anaya"},
		{ID: "c3", DisplayName: "Luis Anaya"},
	}, matches)
}

func TestSearch_EmptyTermSkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)

	matches, err := searching.NewService(gw).Search(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearch_QueryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	gw.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable"))

	matches, err := searching.NewService(gw).Search(context.Background(), "lu")

	assert.Nil(t, matches)
	assert.ErrorIs(t, err, docstore.ErrQuery)
}

func TestDisplayNameIsTitleCaseFixedPoint(t *testing.T) {
	names := []string{"ana maría pérez", "LUIS  gómez", "ñandú", "o'neil mc"}
	for _, name := range names {
		once := domain.TitleCase(name)
		assert.Equal(t, once, domain.TitleCase(once), name)
	}
}
