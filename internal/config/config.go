package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DocStoreDriverPostgres = "postgres"
	DocStoreDriverMongo    = "mongo"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	DocStore     DocStore     `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Search       Search       `mapstructure:",squash"`
	SessionSweep SessionSweep `mapstructure:",squash"`
	Locale       Locale       `mapstructure:",squash"`
	Cors         Cors         `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type DocStore struct {
	Driver        string        `mapstructure:"docstore_driver"`
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database"`
	QueryTimeout  time.Duration `mapstructure:"docstore_query_timeout"`
}

type Auth struct {
	SecretKey string        `mapstructure:"secret_key"`
	TokenTTL  time.Duration `mapstructure:"auth_token_ttl"`
}

type Search struct {
	DebounceDelay time.Duration `mapstructure:"search_debounce_delay"`
}

type SessionSweep struct {
	CronSchedule string        `mapstructure:"session_sweep_cron"`
	IdleTimeout  time.Duration `mapstructure:"session_idle_timeout"`
	Enabled      bool          `mapstructure:"session_sweep_enabled"`
}

type Locale struct {
	Tag      string `mapstructure:"locale_tag"`
	Currency string `mapstructure:"locale_currency"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dashboard?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("DOCSTORE_DRIVER", DocStoreDriverPostgres)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "dashboard")
	viper.SetDefault("DOCSTORE_QUERY_TIMEOUT", "0s") // 0 desliga o timeout

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("SEARCH_DEBOUNCE_DELAY", "500ms")

	viper.SetDefault("SESSION_SWEEP_CRON", "*/10 * * * *") // A cada 10 minutos
	viper.SetDefault("SESSION_IDLE_TIMEOUT", "2h")
	viper.SetDefault("SESSION_SWEEP_ENABLED", true)

	viper.SetDefault("LOCALE_TAG", "es-CO")
	viper.SetDefault("LOCALE_CURRENCY", "COP")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica combinações de configuração que impedem a inicialização
func (c *Config) Validate() error {
	switch c.DocStore.Driver {
	case DocStoreDriverPostgres, DocStoreDriverMongo:
	default:
		return fmt.Errorf("DOCSTORE_DRIVER inválido: %q (use %q ou %q)", c.DocStore.Driver, DocStoreDriverPostgres, DocStoreDriverMongo)
	}

	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY é obrigatório")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL deve ser positivo")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
