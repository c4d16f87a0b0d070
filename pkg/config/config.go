package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "rentline"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "RENTLINE_DB_DSN"
	EnvDBHost = "RENTLINE_DB_HOST"
	EnvDBUser = "RENTLINE_DB_USER"
	EnvDBName = "RENTLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Catalog      CatalogConfig
	Availability AvailabilityConfig
	Cron         CronConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"RENTLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENTLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTLINE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"RENTLINE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RENTLINE_DB_DSN"`
	Driver string `envconfig:"RENTLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RENTLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"RENTLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENTLINE_DB_USER"`
	LegacyPassword string `envconfig:"RENTLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENTLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENTLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENTLINE_REDIS_ADDR"`
	Password     string        `envconfig:"RENTLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RENTLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RENTLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RENTLINE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// CatalogConfig tunes slug resolution on the asset write path.
type CatalogConfig struct {
	SlugMaxAttempts int `envconfig:"RENTLINE_CATALOG_SLUG_MAX_ATTEMPTS" default:"3"`
}

// AvailabilityConfig tunes the reservation timeline computation.
type AvailabilityConfig struct {
	WindowDays   int           `envconfig:"RENTLINE_AVAILABILITY_WINDOW_DAYS" default:"14"`
	LimitedRatio float64       `envconfig:"RENTLINE_AVAILABILITY_LIMITED_RATIO" default:"0.2"`
	CacheEnabled bool          `envconfig:"RENTLINE_AVAILABILITY_CACHE_ENABLED" default:"false"`
	CacheTTL     time.Duration `envconfig:"RENTLINE_AVAILABILITY_CACHE_TTL" default:"30s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"RENTLINE_CRON_INTERVAL" default:"1h"`
	LockKey  string        `envconfig:"RENTLINE_CRON_LOCK_KEY" default:"cron:worker"`
	LockTTL  time.Duration `envconfig:"RENTLINE_CRON_LOCK_TTL" default:"55m"`
}

type RateLimitConfig struct {
	WriteWindow time.Duration `envconfig:"RENTLINE_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteLimit  int           `envconfig:"RENTLINE_RATE_LIMIT_WRITE_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RENTLINE_AUTO_MIGRATE" default:"false"`
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
