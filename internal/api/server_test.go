package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/session"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ordering"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/searching"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func fakeStore(t *testing.T) docstore.Gateway {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	gw.EXPECT().Find(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q docstore.Query) ([]docstore.Document, error) {
			switch q.Collection {
			case domain.UserCollection:
				return []docstore.Document{{
					ID: "u1",
					Fields: map[string]any{
						domain.UserFieldEmail:        "ana@loja.co",
						domain.UserFieldPasswordHash: string(hash),
						domain.UserFieldName:         "Ana",
						domain.UserFieldActive:       true,
					},
				}}, nil
			case domain.SaleCollection:
				return []docstore.Document{{
					ID: "s1",
					Fields: map[string]any{
						domain.SaleFieldDate:  docstore.ToISO(time.Now()),
						domain.SaleFieldTotal: 900.0,
						domain.SaleFieldProducts: []any{
							map[string]any{"nombre": "Café", "precioVenta": 300.0, "cantidad": 3.0},
						},
					},
				}}, nil
			default:
				return []docstore.Document{}, nil
			}
		}).AnyTimes()
	return gw
}

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	gw := fakeStore(t)
	cfg := &config.Config{
		Auth:   config.Auth{SecretKey: "segredo", TokenTTL: time.Hour},
		Locale: config.Locale{Tag: "es-CO", Currency: "COP"},
		Cors:   config.Cors{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	aggregator := aggregating.NewService(gw)
	searcher := searching.NewService(gw)
	history := ordering.NewService(gw)
	sessions := session.NewManager(session.Dependencies{
		Aggregator: aggregator,
		Searcher:   searcher,
		History:    history,
	})
	t.Cleanup(sessions.CloseAll)

	srv, err := New(cfg, Services{
		Authenticator: authenticating.NewService(gw, sessions, cfg.Auth),
		Aggregator:    aggregator,
		Searcher:      searcher,
		History:       history,
		Catalog:       cataloging.NewService(gw),
		Sessions:      sessions,
	})
	require.NoError(t, err)
	return srv, sessions
}

func login(t *testing.T, h http.Handler) authenticating.LoginResult {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/login",
		strings.NewReader(`{"email":" Ana@Loja.co ","password":"senha123"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result authenticating.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestServer_LoginRevenueLogout(t *testing.T) {
	srv, sessions := newTestServer(t)
	h := srv.Handler()

	result := login(t, h)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, 1, sessions.Count())

	req := httptest.NewRequest(http.MethodGet, "/v1/sales/revenue", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Revenue struct {
			Value float64 `json:"value"`
		} `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 900.0, body.Revenue.Value)

	req = httptest.NewRequest(http.MethodPost, "/v1/logout", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, sessions.Count())

	req = httptest.NewRequest(http.MethodGet, "/v1/sales/revenue", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_CorsPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
