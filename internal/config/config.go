// Package config manages environment variables.
//
// It reads variables from the process environment (and from a `.env`
// file when one exists), loads them into structured Go types and
// validates them so the application fails fast on bad or missing config.
//
// Keys use the SIGNUP_ prefix and a double underscore for nesting:
//
//	SIGNUP_PRIMARY__ENV=local              -> primary.env
//	SIGNUP_DATABASE__URI=mongodb://...     -> database.uri
//	SIGNUP_DATABASE__CONNECT_TIMEOUT=5s    -> database.connect_timeout
//	SIGNUP_SERVER__PORT=8080               -> server.port
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment
	// before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of every configuration variable.
const EnvPrefix = "SIGNUP_"

// Driver names accepted in database.driver.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional; defaults are injected
// when it is missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server run by `signupctl serve`.
//
// Timeouts are in seconds. SignupRateLimit is the number of sign-up
// requests per second allowed from one client IP, with SignupBurst extra
// requests tolerated at once.
type ServerConfig struct {
	Port               string   `koanf:"port"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"gte=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	SignupRateLimit    float64  `koanf:"signup_rate_limit" validate:"gte=0"`
	SignupBurst        int      `koanf:"signup_burst" validate:"gte=0"`
}

// DatabaseConfig describes how to reach the document store.
//
// URI is only required for the mongo driver; the memory driver keeps
// everything in process.
type DatabaseConfig struct {
	Driver         string        `koanf:"driver" validate:"required,oneof=mongo memory"`
	URI            string        `koanf:"uri" validate:"required_if=Driver mongo"`
	Name           string        `koanf:"name" validate:"required"`
	AppName        string        `koanf:"app_name"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
	IndexWidth     int           `koanf:"index_width" validate:"gte=0"`
}

// LoadConfig loads configuration from the environment, applies defaults
// and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	// The service name is fixed; the environment always follows primary.env.
	mainConfig.Observability.ServiceName = "signup"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	// A list set from the environment arrives as one comma separated value.
	if len(c.Server.CORSAllowedOrigins) == 1 {
		c.Server.CORSAllowedOrigins = strings.Split(c.Server.CORSAllowedOrigins[0], ",")
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.SignupRateLimit == 0 {
		c.Server.SignupRateLimit = 1
	}
	if c.Server.SignupBurst == 0 {
		c.Server.SignupBurst = 5
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverMongo
	}
	if c.Database.Name == "" {
		c.Database.Name = "signup"
	}
	if c.Database.AppName == "" {
		c.Database.AppName = "signup"
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = 10 * time.Second
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
}
