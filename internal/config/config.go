package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv" // optional .env file for local development
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment ("development", "production")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	AccessSecret  string        // HMAC key for access tokens
	RefreshSecret string        // HMAC key for refresh tokens, must differ from AccessSecret
	AccessTTL     time.Duration // access token lifetime
	RefreshTTL    time.Duration // refresh token lifetime
	BcryptCost    int           // bcrypt cost for password hashing

	CookieSecure bool   // Secure flag on session cookies
	CORSOrigin   string // allowed CORS origin
	BodyLimit    string // echo BodyLimit value, e.g. "200M"

	S3 S3Config

	RabbitURL      string // AMQP URL; events are disabled when empty
	EventsEnabled  bool   // start the activity consumer
	ActivityLogDir string // directory of activity.log
}

// S3Config points the blob store at an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // custom endpoint (MinIO, R2); empty uses AWS
	AccessKey string
	SecretKey string
	PublicURL string // base URL used to build asset URLs
}

// IsDevelopment reports whether the app runs with development defaults.
func (c Config) IsDevelopment() bool { return c.Env == "development" }

// DotEnv loads a .env file into the process environment when one exists.
// Variables already set are not overridden.
func DotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads configuration values from environment variables. Every
// missing or invalid variable is reported at once in the returned error.
func Load() (Config, error) {
	r := &reader{}
	cfg := Config{
		Env:  r.str("APP_ENV", "development"),
		Port: r.str("APP_PORT", "8000"),

		DBUser: r.must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: r.must("DB_HOST"),
		DBPort: r.must("DB_PORT"),
		DBName: r.must("DB_NAME"),

		AccessSecret:  r.must("ACCESS_TOKEN_SECRET"),
		RefreshSecret: r.must("REFRESH_TOKEN_SECRET"),
		AccessTTL:     r.duration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:    r.duration("REFRESH_TOKEN_TTL", 240*time.Hour),
		BcryptCost:    r.integer("BCRYPT_COST", 10),

		CookieSecure: r.boolean("COOKIE_SECURE", true),
		CORSOrigin:   r.str("CORS_ORIGIN", "*"),
		BodyLimit:    r.str("BODY_LIMIT", "200M"),

		S3: S3Config{
			Bucket:    r.str("S3_BUCKET", "vidtube"),
			Region:    r.str("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},

		RabbitURL:      os.Getenv("RABBITMQ_URL"),
		EventsEnabled:  r.boolean("EVENTS_ENABLED", false),
		ActivityLogDir: r.str("ACTIVITY_LOG_DIR", "logs"),
	}

	if cfg.AccessSecret != "" && cfg.AccessSecret == cfg.RefreshSecret {
		r.fail(errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		r.fail(errors.New("token TTLs must be positive"))
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		r.fail(fmt.Errorf("BCRYPT_COST out of range: %d", cfg.BcryptCost))
	}
	if cfg.EventsEnabled && cfg.RabbitURL == "" {
		r.fail(errors.New("EVENTS_ENABLED requires RABBITMQ_URL"))
	}
	return cfg, errors.Join(r.errs...)
}

// reader accumulates lookup errors so Load can report them together.
type reader struct{ errs []error }

func (r *reader) fail(err error) { r.errs = append(r.errs, err) }

func (r *reader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		r.fail(fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

func (r *reader) str(key, def string) string { return envStr(key, def) }

func (r *reader) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(fmt.Errorf("invalid int for %s: %q", key, v))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(fmt.Errorf("invalid duration for %s: %q", key, v))
		return def
	}
	return d
}

func (r *reader) boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, ok := parseBool(v)
	if !ok {
		r.fail(fmt.Errorf("invalid bool for %s: %q", key, v))
		return def
	}
	return b
}
