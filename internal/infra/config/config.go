package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "MOVIGO"

// Config aggregates all runtime settings. Values come from environment
// variables under the MOVIGO_ prefix with sane development defaults.
type Config struct {
	App       AppSettings       `mapstructure:"app"`
	HTTP      HTTPSettings      `mapstructure:"http"`
	Database  DatabaseSettings  `mapstructure:"database"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	JWT       JWTSettings       `mapstructure:"jwt"`
	Auth      AuthSettings      `mapstructure:"auth"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
}

// AppSettings identify the service instance.
type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// HTTPSettings configure the API server.
type HTTPSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	FrontendBaseURL string        `mapstructure:"frontend_base_url"`
}

// DatabaseSettings configure the PostgreSQL pool.
type DatabaseSettings struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	User        string        `mapstructure:"user"`
	Password    string        `mapstructure:"password"`
	Name        string        `mapstructure:"name"`
	SSLMode     string        `mapstructure:"ssl_mode"`
	MaxConns    int32         `mapstructure:"max_conns"`
	MinConns    int32         `mapstructure:"min_conns"`
	MaxConnIdle time.Duration `mapstructure:"max_conn_idle"`
	MaxConnLife time.Duration `mapstructure:"max_conn_life"`
}

// RedisSettings configure the Redis client used for rate limiting.
type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaSettings configure the event producer.
type KafkaSettings struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

// JWTSettings carry the two independent signing secrets and lifetimes. The
// codec receives this struct at construction; nothing reads the environment
// at signing time.
type JWTSettings struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	Issuer        string        `mapstructure:"issuer"`
	Audience      string        `mapstructure:"audience"`
}

// AuthSettings configure the passwordless login flow.
type AuthSettings struct {
	LoginTokenTTL        time.Duration `mapstructure:"login_token_ttl"`
	VerificationTokenTTL time.Duration `mapstructure:"verification_token_ttl"`
	SessionTTL           time.Duration `mapstructure:"session_ttl"`
}

// RateLimitSettings bound the login endpoints.
type RateLimitSettings struct {
	Enabled      bool          `mapstructure:"enabled"`
	LoginLimit   int           `mapstructure:"login_limit"`
	LoginWindow  time.Duration `mapstructure:"login_window"`
	VerifyLimit  int           `mapstructure:"verify_limit"`
	VerifyWindow time.Duration `mapstructure:"verify_window"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("jwt secrets must be configured")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("access and refresh secrets must differ")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "movigo-api")
	v.SetDefault("app.env", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.frontend_base_url", "http://localhost:3000")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "movigo")
	v.SetDefault("database.password", "movigo")
	v.SetDefault("database.name", "movigo")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_idle", 5*time.Minute)
	v.SetDefault("database.max_conn_life", 30*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic_prefix", "movigo")

	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "movigo-api")
	v.SetDefault("jwt.audience", "movigo")

	v.SetDefault("auth.login_token_ttl", 15*time.Minute)
	v.SetDefault("auth.verification_token_ttl", 24*time.Hour)
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.login_limit", 5)
	v.SetDefault("rate_limit.login_window", time.Minute)
	v.SetDefault("rate_limit.verify_limit", 10)
	v.SetDefault("rate_limit.verify_window", time.Minute)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"app.name", "app.env",
		"http.host", "http.port", "http.read_timeout", "http.write_timeout",
		"http.shutdown_timeout", "http.allowed_origins", "http.frontend_base_url",
		"database.host", "database.port", "database.user", "database.password",
		"database.name", "database.ssl_mode", "database.max_conns",
		"database.min_conns", "database.max_conn_idle", "database.max_conn_life",
		"redis.addr", "redis.password", "redis.db",
		"kafka.enabled", "kafka.brokers", "kafka.topic_prefix",
		"jwt.access_secret", "jwt.refresh_secret", "jwt.access_ttl",
		"jwt.refresh_ttl", "jwt.issuer", "jwt.audience",
		"auth.login_token_ttl", "auth.verification_token_ttl", "auth.session_ttl",
		"rate_limit.enabled", "rate_limit.login_limit", "rate_limit.login_window",
		"rate_limit.verify_limit", "rate_limit.verify_window",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
