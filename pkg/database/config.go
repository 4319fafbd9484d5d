package database

import (
	"time"

	"github.com/Alijeyrad/officehours_backend/config"
)

// Config holds database connection and behavior settings
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// Connection pooling
	MaxConns           int
	MinConns           int
	ConnMaxLifetimeMin int

	// Startup retry
	MaxRetries       int
	InitialBackoffMs int
}

// DSN returns a PostgreSQL connection string understood by both lib/pq and pgx.
func (c Config) DSN() string {
	return buildDSN(c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ConnMaxLifetime returns the connection max lifetime as a duration
func (c Config) ConnMaxLifetime() time.Duration {
	if c.ConnMaxLifetimeMin <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.ConnMaxLifetimeMin) * time.Minute
}

// InitialBackoff is the first wait between connection attempts.
func (c Config) InitialBackoff() time.Duration {
	if c.InitialBackoffMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.InitialBackoffMs) * time.Millisecond
}

// DefaultConfig returns sensible defaults for database configuration
func DefaultConfig() Config {
	return Config{
		Host:               "localhost",
		Port:               5432,
		SSLMode:            "disable",
		MaxConns:           20,
		MinConns:           2,
		ConnMaxLifetimeMin: 30,
		MaxRetries:         5,
		InitialBackoffMs:   500,
	}
}

// FromCentralConfig converts central config.DatabaseConfig to package Config
func FromCentralConfig(c config.DatabaseConfig) Config {
	return Config{
		Host:               c.Host,
		Port:               c.Port,
		User:               c.User,
		Password:           c.Password,
		DBName:             c.DBName,
		SSLMode:            c.SSLMode,
		MaxConns:           c.Pool.MaxOpenConns,
		MinConns:           c.Pool.MinConns,
		ConnMaxLifetimeMin: c.Pool.ConnMaxLifetimeMin,
		MaxRetries:         c.Connect.MaxRetries,
		InitialBackoffMs:   c.Connect.InitialBackoffMs,
	}
}

// NewDSN creates a DSN string from central config.DatabaseConfig
func NewDSN(c config.DatabaseConfig) string {
	return FromCentralConfig(c).DSN()
}
