package config

const EnvPrefix = "FOODMOBILE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "FOODMOBILE_APP_ENV"
	EnvPort     = "FOODMOBILE_APP_PORT"
	EnvLogLevel = "FOODMOBILE_LOG_LEVEL"

	EnvDBDSN      = "FOODMOBILE_DB_DSN"
	EnvDBHost     = "FOODMOBILE_DB_HOST"
	EnvDBPort     = "FOODMOBILE_DB_PORT"
	EnvDBUser     = "FOODMOBILE_DB_USER"
	EnvDBPassword = "FOODMOBILE_DB_PASSWORD"
	EnvDBName     = "FOODMOBILE_DB_NAME"
	EnvDBSSLMode  = "FOODMOBILE_DB_SSLMODE"

	EnvRedisURL = "FOODMOBILE_REDIS_URL"

	EnvStrategyCacheTTL    = "FOODMOBILE_PRICING_STRATEGY_CACHE_TTL"
	EnvExpiryWarningWindow = "FOODMOBILE_PRICING_EXPIRY_WARNING_WINDOW"

	EnvAllowedOrigins = "FOODMOBILE_HTTP_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
