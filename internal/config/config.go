package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

const minSecretLength = 32

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	Token    TokenConfig    `env:",prefix=TOKEN_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=sociogram"`
	Password string `env:"PASSWORD,default=sociogram_password"`
	DBName   string `env:"DB,default=sociogram_db"`
	SSLMode  string `env:"SSLMODE,default=disable"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

// TokenConfig carries the signing material for the session token pair.
// Access and refresh tokens use distinct secrets so a leaked access
// secret cannot mint refresh tokens.
type TokenConfig struct {
	AccessSecret  string   `env:"ACCESS_SECRET,required"`
	RefreshSecret string   `env:"REFRESH_SECRET,required"`
	AccessExpiry  Duration `env:"ACCESS_EXPIRY,default=15m"`
	RefreshExpiry Duration `env:"REFRESH_EXPIRY,default=7d"`
}

type SecurityConfig struct {
	BCryptCost         int      `env:"BCRYPT_COST,default=12"`
	PasswordMinEntropy float64  `env:"PASSWORD_MIN_ENTROPY,default=40"`
	RateLimitRequests  int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow    Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns the Redis connection address.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load reads configuration from environment variables and validates the
// signing secrets.
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.Token.AccessSecret) < minSecretLength {
		return nil, fmt.Errorf("TOKEN_ACCESS_SECRET must be at least %d characters long", minSecretLength)
	}
	if len(config.Token.RefreshSecret) < minSecretLength {
		return nil, fmt.Errorf("TOKEN_REFRESH_SECRET must be at least %d characters long", minSecretLength)
	}
	if config.Token.AccessSecret == config.Token.RefreshSecret {
		return nil, fmt.Errorf("TOKEN_ACCESS_SECRET and TOKEN_REFRESH_SECRET must differ")
	}

	return &config, nil
}
