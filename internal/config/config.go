package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	// DSN is the ConnectionStrings:DefaultConnection value
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Key    string
	Issuer string // also used as the audience
	Expiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

var (
	ErrMissingJWTKey    = errors.New("JWT_KEY must be set")
	ErrMissingJWTIssuer = errors.New("JWT_ISSUER must be set")
	ErrMissingDSN       = errors.New("DATABASE_URL must be set")
)

// Flags returns the command-line flags that override environment values
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("catalog-api", pflag.ContinueOnError)
	fs.String("port", "", "HTTP listen port (overrides SERVER_PORT)")
	fs.String("env", "", "runtime environment: development or production (overrides SERVER_ENV)")
	fs.Bool("migrations-only", false, "apply database migrations and exit")
	return fs
}

// Load reads configuration from .env, the environment and the given flags.
// A nil flag set is allowed.
func Load(flags *pflag.FlagSet) *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("JWT_EXPIRY_MINUTES", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	if flags != nil {
		bindFlag(v, flags, "SERVER_PORT", "port")
		bindFlag(v, flags, "SERVER_ENV", "env")
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			DSN: v.GetString("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Key:    v.GetString("JWT_KEY"),
			Issuer: v.GetString("JWT_ISSUER"),
			Expiry: time.Duration(v.GetInt("JWT_EXPIRY_MINUTES")) * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
	}
}

// Validate reports the first required setting that is missing
func (c *Config) Validate() error {
	if c.JWT.Key == "" {
		return ErrMissingJWTKey
	}
	if c.JWT.Issuer == "" {
		return ErrMissingJWTIssuer
	}
	if c.Database.DSN == "" {
		return ErrMissingDSN
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

// bindFlag lets a flag win over the environment only when it was set explicitly
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	f := flags.Lookup(name)
	if f == nil || !f.Changed {
		return
	}
	if err := v.BindPFlag(key, f); err != nil {
		log.Printf("Warning: Could not bind flag %s: %v", name, err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
