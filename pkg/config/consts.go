package config

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "BOZORPLACE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "BOZORPLACE_APP_ENV"
	EnvPort                   = "BOZORPLACE_APP_PORT"
	EnvDBDSN                  = "BOZORPLACE_DB_DSN"
	EnvDBHost                 = "BOZORPLACE_DB_HOST"
	EnvDBUser                 = "BOZORPLACE_DB_USER"
	EnvDBName                 = "BOZORPLACE_DB_NAME"
	EnvRedisURL               = "BOZORPLACE_REDIS_URL"
	EnvJWTSecret              = "BOZORPLACE_JWT_SECRET"
	EnvJWTIssuer              = "BOZORPLACE_JWT_ISSUER"
	EnvJWTExpMins             = "BOZORPLACE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BOZORPLACE_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
