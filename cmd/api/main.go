package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore/mongo"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/api"
	"github.com/vfg2006/sales-dashboard-api/internal/api/handler"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/session"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ordering"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/searching"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

func main() {
	chdirToSource()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel := log.Configure(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway, closeGateway := openGateway(ctx, cfg)
	defer closeGateway()

	aggregator := aggregating.NewService(gateway)
	searcher := searching.NewService(gateway)
	history := ordering.NewService(gateway)
	catalog := cataloging.NewService(gateway)

	sessions := session.NewManager(session.Dependencies{
		Aggregator:    aggregator,
		Searcher:      searcher,
		History:       history,
		DebounceDelay: cfg.Search.DebounceDelay,
	})

	authenticator := authenticating.NewService(gateway, sessions, cfg.Auth)

	sessionSweepService := scheduler.NewSessionSweepService(sessions, cfg)
	if err := sessionSweepService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador da varredura de sessões")
	} else {
		logrus.Info("Agendador da varredura de sessões iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Aggregator:    aggregator,
		Searcher:      searcher,
		History:       history,
		Catalog:       catalog,
		Sessions:      sessions,
		CronJobs: handler.CronJobServices{
			SessionSweepService: sessionSweepService,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// chdirToSource permite achar o .env ao rodar com go run a partir de outro diretório
func chdirToSource() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	_ = os.Chdir(dir)
}

// openGateway conecta ao document store configurado em DOCSTORE_DRIVER
func openGateway(ctx context.Context, cfg *config.Config) (docstore.Gateway, func()) {
	switch cfg.DocStore.Driver {
	case config.DocStoreDriverMongo:
		gw, err := mongo.Connect(ctx, cfg.DocStore)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao MongoDB")
		}
		return gw, func() {
			if err := gw.Close(context.Background()); err != nil {
				logrus.WithError(err).Warn("Erro ao desconectar do MongoDB")
			}
		}

	default:
		conn := pgconn(ctx, cfg.Database)
		return postgres.NewGateway(conn, cfg.DocStore.QueryTimeout), func() {
			_ = conn.Close()
		}
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
