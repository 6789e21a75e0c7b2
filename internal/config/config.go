package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Renderer RendererConfig
	LinkedIn LinkedInConfig
	Events   EventsConfig
	Admin    AdminConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string

	LoginMaxAttempts int
	LoginWindow      time.Duration
}

func (c RedisConfig) Addr() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

const (
	StorageDriverLocal = "local"
	StorageDriverMinio = "minio"
)

type StorageConfig struct {
	Driver         string
	LocalDir       string
	PublicPrefix   string
	MaxUploadBytes int64

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

type RendererConfig struct {
	ChromePath string
	Timeout    time.Duration
}

type LinkedInConfig struct {
	BaseURL        string
	AccessToken    string
	Timeout        time.Duration
	VocabularyFile string
	// ImportRPS caps record imports started per second during bulk import;
	// zero means unthrottled.
	ImportRPS int
}

type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		CORSOrigins: splitList(opt("CORS_ORIGINS")),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBSSLMode:             orDefault(opt("DB_SSL_MODE"), "disable"),
		ConnectTimeout:        durationOr(opt("DB_CONNECT_TIMEOUT"), 5*time.Second),
		PoolMaxConns:          int32(intOr(opt("DB_POOL_MAX_CONNS"), 0)),
		PoolMinConns:          int32(intOr(opt("DB_POOL_MIN_CONNS"), 0)),
		PoolMaxConnLifetime:   durationOr(opt("DB_POOL_MAX_CONN_LIFETIME"), 0),
		PoolMaxConnIdleTime:   durationOr(opt("DB_POOL_MAX_CONN_IDLE_TIME"), 0),
		PoolHealthCheckPeriod: durationOr(opt("DB_POOL_HEALTH_CHECK_PERIOD"), 0),
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		ExpiresIn: durationOr(opt("JWT_EXPIRES_IN"), 2*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:             opt("REDIS_HOST"),
		Port:             opt("REDIS_PORT"),
		Password:         opt("REDIS_PASSWORD"),
		LoginMaxAttempts: intOr(opt("LOGIN_MAX_ATTEMPTS"), 10),
		LoginWindow:      durationOr(opt("LOGIN_WINDOW"), 15*time.Minute),
	}

	cfg.Storage = StorageConfig{
		Driver:         strings.ToLower(orDefault(opt("STORAGE_DRIVER"), StorageDriverLocal)),
		LocalDir:       orDefault(opt("UPLOAD_DIR"), "uploads/resumes"),
		PublicPrefix:   orDefault(opt("UPLOAD_PUBLIC_PREFIX"), "/uploads/resumes"),
		MaxUploadBytes: int64(intOr(opt("UPLOAD_MAX_BYTES"), 5*1024*1024)),
		MinioEndpoint:  opt("MINIO_ENDPOINT"),
		MinioAccessKey: opt("MINIO_ACCESS_KEY"),
		MinioSecretKey: opt("MINIO_SECRET_KEY"),
		MinioBucket:    orDefault(opt("MINIO_BUCKET"), "resumes"),
		MinioUseSSL:    boolOr(opt("MINIO_USE_SSL"), false),
	}
	if cfg.Storage.Driver != StorageDriverLocal && cfg.Storage.Driver != StorageDriverMinio {
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == StorageDriverMinio {
		req("MINIO_ENDPOINT")
		req("MINIO_ACCESS_KEY")
		req("MINIO_SECRET_KEY")
	}

	cfg.Renderer = RendererConfig{
		ChromePath: opt("CHROME_PATH"),
		Timeout:    durationOr(opt("PDF_RENDER_TIMEOUT"), 30*time.Second),
	}

	cfg.LinkedIn = LinkedInConfig{
		BaseURL:        orDefault(opt("LINKEDIN_API_BASE_URL"), "https://api.linkedin.com/v2"),
		AccessToken:    opt("LINKEDIN_ACCESS_TOKEN"),
		Timeout:        durationOr(opt("LINKEDIN_TIMEOUT"), 10*time.Second),
		VocabularyFile: opt("LINKEDIN_SKILLS_FILE"),
		ImportRPS:      intOr(opt("LINKEDIN_IMPORT_RPS"), 0),
	}

	cfg.Events = EventsConfig{
		AMQPURL:  opt("AMQP_URL"),
		Exchange: orDefault(opt("AMQP_EXCHANGE"), "job-portal.events"),
	}

	cfg.Admin = AdminConfig{
		Email:    strings.ToLower(opt("ADMIN_EMAIL")),
		Password: os.Getenv("ADMIN_PASSWORD"),
		Name:     orDefault(opt("ADMIN_NAME"), "Administrator"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func boolOr(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// durationOr accepts Go durations ("90s") or a bare number of seconds.
func durationOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
		return time.Duration(v) * time.Second
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
