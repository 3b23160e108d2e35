package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
	Sendgrid      SendgridConfig
	Push          PushConfig
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
	Env          string `envconfig:"FITCOACH_APP_ENV" required:"true"`
	Port         string `envconfig:"FITCOACH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FITCOACH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FITCOACH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FITCOACH_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FITCOACH_DB_DSN"`
	Driver string `envconfig:"FITCOACH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FITCOACH_DB_HOST"`
	LegacyPort     int    `envconfig:"FITCOACH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FITCOACH_DB_USER"`
	LegacyPassword string `envconfig:"FITCOACH_DB_PASSWORD"`
	LegacyName     string `envconfig:"FITCOACH_DB_NAME"`
	LegacySSLMode  string `envconfig:"FITCOACH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FITCOACH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FITCOACH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FITCOACH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FITCOACH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FITCOACH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FITCOACH_REDIS_ADDR"`
	Password     string        `envconfig:"FITCOACH_REDIS_PASSWORD"`
	DB           int           `envconfig:"FITCOACH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FITCOACH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FITCOACH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FITCOACH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FITCOACH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FITCOACH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FITCOACH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FITCOACH_JWT_ISSUER" default:"fitcoach"`
	ExpirationMinutes int    `envconfig:"FITCOACH_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FITCOACH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FITCOACH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FITCOACH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FITCOACH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FITCOACH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FITCOACH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FITCOACH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FITCOACH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FITCOACH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FITCOACH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FITCOACH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FITCOACH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FITCOACH_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	SharedSecret     string        `envconfig:"FITCOACH_CRON_SHARED_SECRET" required:"true"`
	Interval         time.Duration `envconfig:"FITCOACH_CRON_INTERVAL" default:"24h"`
	ReminderLeadDays int           `envconfig:"FITCOACH_CRON_REMINDER_LEAD_DAYS" default:"3"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"FITCOACH_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"FITCOACH_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"FITCOACH_SENDGRID_FROM_NAME" default:"FitCoach"`
	ContactTo   string `envconfig:"FITCOACH_CONTACT_INBOX"`
}

// Enabled reports whether outbound email is configured at all.
func (s SendgridConfig) Enabled() bool {
	return s.APIKey != "" && s.DefaultFrom != ""
}

type PushConfig struct {
	VAPIDPublicKey  string `envconfig:"FITCOACH_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"FITCOACH_VAPID_PRIVATE_KEY"`
	Subscriber      string `envconfig:"FITCOACH_VAPID_SUBSCRIBER" default:"mailto:support@fitcoach.app"`
	Concurrency     int    `envconfig:"FITCOACH_PUSH_CONCURRENCY" default:"16"`
}

// Enabled reports whether VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.VAPIDPublicKey != "" && p.VAPIDPrivateKey != ""
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
