package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ordering"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/searching"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

func Healthcheck(sessions SessionCounter) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(sessions),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/logout",
			Method:  http.MethodPost,
			Handler: Logout(service),
		},
		{
			Path:    "/v1/me",
			Method:  http.MethodGet,
			Handler: GetMe(service),
		},
	}
}

func Sales(service aggregating.Aggregator, formatter *utils.MoneyFormatter, sessions middleware.SessionLookup) []router.Route {
	withSession := []func(http.Handler) http.Handler{middleware.RequireSession(sessions)}

	return []router.Route{
		{
			Path:        "/v1/sales/revenue",
			Method:      http.MethodGet,
			Handler:     GetRevenue(service, formatter),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/products/top",
			Method:      http.MethodGet,
			Handler:     GetTopProducts(service),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/clients/top",
			Method:      http.MethodGet,
			Handler:     GetTopClient(service, formatter),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/orders",
			Method:      http.MethodGet,
			Handler:     GetOrders(service, formatter),
			Middlewares: withSession,
		},
	}
}

func Products(service cataloging.Catalog, formatter *utils.MoneyFormatter, sessions middleware.SessionLookup) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/products",
			Method:      http.MethodGet,
			Handler:     ListProducts(service, formatter),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession(sessions)},
		},
	}
}

func Clients(searcher searching.Searcher, history ordering.OrderHistory, formatter *utils.MoneyFormatter, sessions middleware.SessionLookup) []router.Route {
	withSession := []func(http.Handler) http.Handler{middleware.RequireSession(sessions)}

	return []router.Route{
		{
			Path:        "/v1/clients/search",
			Method:      http.MethodGet,
			Handler:     SearchClients(searcher),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/orders/client/:id",
			Method:      http.MethodGet,
			Handler:     GetClientOrders(history, formatter),
			Middlewares: withSession,
		},
	}
}

func Dashboard(sessions middleware.SessionLookup) []router.Route {
	withSession := []func(http.Handler) http.Handler{middleware.RequireSession(sessions)}

	return []router.Route{
		{
			Path:        "/v1/dashboard",
			Method:      http.MethodGet,
			Handler:     GetDashboard(),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/dashboard/date-range",
			Method:      http.MethodPut,
			Handler:     SetDashboardDateRange(),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/dashboard/search",
			Method:      http.MethodPut,
			Handler:     SetDashboardSearch(),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/dashboard/client",
			Method:      http.MethodPut,
			Handler:     SetDashboardClient(),
			Middlewares: withSession,
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
