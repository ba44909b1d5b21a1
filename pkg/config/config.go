package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	HTTP         HTTPConfig
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
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODMOBILE_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODMOBILE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOODMOBILE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODMOBILE_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"FOODMOBILE_LOG_FORMAT"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODMOBILE_DB_DSN"`
	Driver string `envconfig:"FOODMOBILE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODMOBILE_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODMOBILE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODMOBILE_DB_USER"`
	LegacyPassword string `envconfig:"FOODMOBILE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODMOBILE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODMOBILE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODMOBILE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODMOBILE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODMOBILE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODMOBILE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODMOBILE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FOODMOBILE_REDIS_ADDR"`
	Password     string        `envconfig:"FOODMOBILE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODMOBILE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODMOBILE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODMOBILE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODMOBILE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODMOBILE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODMOBILE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig tunes strategy caching and cart expiry warnings.
type PricingConfig struct {
	StrategyCacheTTL    time.Duration `envconfig:"FOODMOBILE_PRICING_STRATEGY_CACHE_TTL" default:"10m"`
	ExpiryWarningWindow time.Duration `envconfig:"FOODMOBILE_PRICING_EXPIRY_WARNING_WINDOW" default:"30m"`
}

func (p PricingConfig) validate() error {
	if p.StrategyCacheTTL < 0 {
		return fmt.Errorf("%s must not be negative", EnvStrategyCacheTTL)
	}
	if p.ExpiryWarningWindow < 0 {
		return fmt.Errorf("%s must not be negative", EnvExpiryWarningWindow)
	}
	return nil
}

type HTTPConfig struct {
	AllowedOrigins []string      `envconfig:"FOODMOBILE_HTTP_ALLOWED_ORIGINS" default:"*"`
	ReadTimeout    time.Duration `envconfig:"FOODMOBILE_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"FOODMOBILE_HTTP_WRITE_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FOODMOBILE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FOODMOBILE_AUTO_MIGRATE" default:"false"`
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
