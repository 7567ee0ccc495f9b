package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "BESTIMATOR_APP_ENV"
	EnvDBDSN  = "BESTIMATOR_DB_DSN"
	EnvDBHost = "BESTIMATOR_DB_HOST"
	EnvDBUser = "BESTIMATOR_DB_USER"
	EnvDBName = "BESTIMATOR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	PriceRefresh PriceRefreshConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BESTIMATOR_APP_ENV" required:"true"`
	Port         string `envconfig:"BESTIMATOR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BESTIMATOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BESTIMATOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BESTIMATOR_DB_DSN"`
	Driver string `envconfig:"BESTIMATOR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BESTIMATOR_DB_HOST"`
	LegacyPort     int    `envconfig:"BESTIMATOR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BESTIMATOR_DB_USER"`
	LegacyPassword string `envconfig:"BESTIMATOR_DB_PASSWORD"`
	LegacyName     string `envconfig:"BESTIMATOR_DB_NAME"`
	LegacySSLMode  string `envconfig:"BESTIMATOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BESTIMATOR_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"BESTIMATOR_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"BESTIMATOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BESTIMATOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BESTIMATOR_REDIS_URL"`
	PoolSize     int           `envconfig:"BESTIMATOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BESTIMATOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BESTIMATOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BESTIMATOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BESTIMATOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BESTIMATOR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BESTIMATOR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BESTIMATOR_JWT_EXPIRATION_MINUTES" default:"60"`
}

// PriceRefreshConfig drives the price-worker binary. The pricing API is the
// Home Depot search endpoint proxied through SerpAPI.
type PriceRefreshConfig struct {
	APIURL    string        `envconfig:"BESTIMATOR_PRICE_API_URL" default:"https://serpapi.com/search.json"`
	APIKey    string        `envconfig:"BESTIMATOR_PRICE_API_KEY"`
	StoreID   string        `envconfig:"BESTIMATOR_PRICE_STORE_ID" default:"7080"`
	Country   string        `envconfig:"BESTIMATOR_PRICE_COUNTRY" default:"ca"`
	BatchSize int           `envconfig:"BESTIMATOR_PRICE_BATCH_SIZE" default:"40"`
	Interval  time.Duration `envconfig:"BESTIMATOR_PRICE_INTERVAL" default:"24h"`
	Timeout   time.Duration `envconfig:"BESTIMATOR_PRICE_TIMEOUT" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BESTIMATOR_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
