package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverGorm     = "gorm"
	StoreDriverMySQL    = "mysql"
	StoreDriverMemory   = "memory"
)

// Auth providers
const (
	AuthProviderLocal    = "local"
	AuthProviderFirebase = "firebase"
)

// Photo storage drivers
const (
	StorageDriverLocal    = "local"
	StorageDriverFirebase = "firebase"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port          string   `yaml:"port" env:"SERVER_PORT"`
		Mode          string   `yaml:"mode" env:"SERVER_MODE"`
		PublicBaseURL string   `yaml:"public_base_url" env:"SERVER_PUBLIC_BASE_URL"`
		CORSOrigins   []string `yaml:"cors_origins" env:"CORS_ORIGINS"`
	} `yaml:"server"`

	Store struct {
		Driver          string `yaml:"driver" env:"STORE_DRIVER"`
		URL             string `yaml:"url" env:"DATABASE_URL"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"store"`

	Auth struct {
		Provider            string `yaml:"provider" env:"AUTH_PROVIDER"`
		JWTSecret           string `yaml:"jwt_secret" env:"JWT_SECRET"`
		TokenExpiration     string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
		Issuer              string `yaml:"issuer" env:"JWT_ISSUER"`
		FirebaseCredentials string `yaml:"firebase_credentials" env:"GOOGLE_APPLICATION_CREDENTIALS"`
		FirebaseProjectID   string `yaml:"firebase_project_id" env:"FIREBASE_PROJECT_ID"`
	} `yaml:"auth"`

	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
		Path   string `yaml:"path" env:"STORAGE_PATH"`
		Bucket string `yaml:"bucket" env:"STORAGE_BUCKET"`
	} `yaml:"storage"`

	Community struct {
		VerificationCodes []string `yaml:"verification_codes" env:"VERIFICATION_CODES"`
		AdminCode         string   `yaml:"admin_code" env:"ADMIN_CODE"`
		AdminEmails       []string `yaml:"admin_emails" env:"ADMIN_EMAILS"`
	} `yaml:"community"`

	Leaderboard struct {
		DefaultLimit int `yaml:"default_limit" env:"LEADERBOARD_LIMIT"`
		Weights      struct {
			Post    int `yaml:"post" env:"LEADERBOARD_WEIGHT_POST"`
			Comment int `yaml:"comment" env:"LEADERBOARD_WEIGHT_COMMENT"`
			Thread  int `yaml:"thread" env:"LEADERBOARD_WEIGHT_THREAD"`
			Reply   int `yaml:"reply" env:"LEADERBOARD_WEIGHT_REPLY"`
			Upvote  int `yaml:"upvote" env:"LEADERBOARD_WEIGHT_UPVOTE"`
		} `yaml:"weights"`
	} `yaml:"leaderboard"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"rps" env:"RATE_LIMIT_RPS"`
		Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"ratelimit"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal in production where variables are set directly
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.CORSOrigins = []string{
		"https://emblabrowall.github.io",
		"http://localhost:5173",
		"http://localhost:3000",
	}

	config.Store.Driver = StoreDriverPostgres
	config.Store.Host = "localhost"
	config.Store.Port = "5432"
	config.Store.User = "postgres"
	config.Store.Password = "postgres"
	config.Store.DBName = "donosti"
	config.Store.SSLMode = "disable"
	config.Store.MaxIdleConns = 2
	config.Store.MaxOpenConns = 10
	config.Store.ConnMaxLifetime = "1h"
	config.Store.MigrationsDir = "migrations"

	config.Auth.Provider = AuthProviderLocal
	config.Auth.TokenExpiration = "168h"
	config.Auth.Issuer = "donosti-guide"

	config.Storage.Driver = StorageDriverLocal
	config.Storage.Path = "uploads"
	config.Storage.Bucket = "donosti-photos"

	config.Community.VerificationCodes = []string{"DONOSTI2025", "EXCHANGE2025"}
	config.Community.AdminCode = "CASAPINA2025"

	config.Leaderboard.DefaultLimit = 10
	config.Leaderboard.Weights.Post = 5
	config.Leaderboard.Weights.Comment = 1
	config.Leaderboard.Weights.Thread = 3
	config.Leaderboard.Weights.Reply = 2
	config.Leaderboard.Weights.Upvote = 2

	config.RateLimit.RequestsPerSecond = 1
	config.RateLimit.Burst = 5

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Store.Driver {
	case StoreDriverPostgres, StoreDriverGorm, StoreDriverMySQL, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	switch config.Auth.Provider {
	case AuthProviderLocal:
		if config.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT secret is required for the local auth provider")
		}
		if _, err := time.ParseDuration(config.Auth.TokenExpiration); err != nil {
			return fmt.Errorf("invalid token expiration format: %w", err)
		}
	case AuthProviderFirebase:
	default:
		return fmt.Errorf("unknown auth provider %q", config.Auth.Provider)
	}

	switch config.Storage.Driver {
	case StorageDriverLocal:
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required for local photo storage")
		}
	case StorageDriverFirebase:
		if config.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for firebase photo storage")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Store.Driver == StoreDriverGorm && config.Store.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for the gorm store")
	}

	if config.Leaderboard.DefaultLimit <= 0 {
		return fmt.Errorf("leaderboard default limit must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	if strings.HasPrefix(c.Store.URL, "postgres://") || strings.HasPrefix(c.Store.URL, "postgresql://") {
		return c.Store.URL
	}

	sslMode := c.Store.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Store.User,
		c.Store.Password,
		c.Store.Host,
		c.Store.Port,
		c.Store.DBName,
		sslMode,
	)
}

// GetMySQLDSN returns a go-sql-driver/mysql DSN
func (c *Config) GetMySQLDSN() string {
	if c.Store.URL != "" && !strings.Contains(c.Store.URL, "://") {
		return c.Store.URL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.Store.User,
		c.Store.Password,
		c.Store.Host,
		c.Store.Port,
		c.Store.DBName,
	)
}

// PublicBaseURL returns the externally reachable base URL of the API
func (c *Config) PublicBaseURL() string {
	if c.Server.PublicBaseURL != "" {
		return strings.TrimRight(c.Server.PublicBaseURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
