package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for variables without a tag.
const EnvPrefix = "fitcoach"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FITCOACH_DB_DSN"
	EnvDBHost = "FITCOACH_DB_HOST"
	EnvDBUser = "FITCOACH_DB_USER"
	EnvDBName = "FITCOACH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

const (
	EnvAppEnv     = "FITCOACH_APP_ENV"
	EnvPort       = "FITCOACH_APP_PORT"
	EnvRedisURL   = "FITCOACH_REDIS_URL"
	EnvJWTSecret  = "FITCOACH_JWT_SECRET"
	EnvCronSecret = "FITCOACH_CRON_SHARED_SECRET"
)
