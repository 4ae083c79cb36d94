package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int

	// WritesRequireStaff restricts catalog create/update endpoints to staff users.
	WritesRequireStaff bool

	AdminEmail    string
	AdminUsername string
	AdminPassword string
}

type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MinIOConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
	PublicURL       string
	PresignExpiry   time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("SERVER_PORT", "8010"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            getEnvOrDefault("DB_PORT", "5432"),
			User:            getEnvOrDefault("DB_USER", "postgres"),
			Password:        getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:          getEnvOrDefault("DB_NAME", "movie_catalog"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			QueryTimeout:    getDurationOrDefault("DB_QUERY_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("JWT_SECRET"),
			Issuer:             getEnvOrDefault("JWT_ISSUER", "movie-catalog"),
			AccessTokenTTL:     getDurationOrDefault("JWT_ACCESS_TTL", 5*time.Minute),
			RefreshTokenTTL:    getDurationOrDefault("JWT_REFRESH_TTL", 24*time.Hour),
			BcryptCost:         getIntOrDefault("BCRYPT_COST", 10),
			WritesRequireStaff: getBoolOrDefault("CATALOG_WRITES_REQUIRE_STAFF", false),
			AdminEmail:         getEnvOrDefault("ADMIN_EMAIL", "admin@movie-catalog.local"),
			AdminUsername:      getEnvOrDefault("ADMIN_USERNAME", "admin"),
			AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		},
		Redis: RedisConfig{
			Enabled:      getBoolOrDefault("REDIS_ENABLED", true),
			Addr:         getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           getIntOrDefault("REDIS_DB", 0),
			ReadTimeout:  getDurationOrDefault("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationOrDefault("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		MinIO: MinIOConfig{
			Enabled:         getBoolOrDefault("MINIO_ENABLED", false),
			Endpoint:        getEnvOrDefault("AWS_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnvOrDefault("AWS_BUCKET", "posters"),
			Region:          getEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1"),
			UseSSL:          getBoolOrDefault("AWS_USE_SSL", false),
			PublicURL:       getEnvOrDefault("AWS_URL", "http://localhost:9000/posters"),
			PresignExpiry:   getDurationOrDefault("AWS_PRESIGN_EXPIRY", 15*time.Minute),
		},
	}
}

// GetDSN returns PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET should be at least 32 characters")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.MinIO.Enabled {
		if c.MinIO.AccessKeyID == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID is required for MinIO")
		}
		if c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("AWS_SECRET_ACCESS_KEY is required for MinIO")
		}
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("AWS_ENDPOINT is required for MinIO")
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
