package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "LICENSING"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "LICENSING_APP_ENV"
	EnvPort       = "LICENSING_APP_PORT"
	EnvDBDSN      = "LICENSING_DB_DSN"
	EnvDBHost     = "LICENSING_DB_HOST"
	EnvDBUser     = "LICENSING_DB_USER"
	EnvDBName     = "LICENSING_DB_NAME"
	EnvRedisURL   = "LICENSING_REDIS_URL"
	EnvJWTSecret  = "LICENSING_JWT_SECRET"
	EnvJWTIssuer  = "LICENSING_JWT_ISSUER"
	EnvJWTExpMins = "LICENSING_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
