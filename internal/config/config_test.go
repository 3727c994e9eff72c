package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SIGNUP_PRIMARY__ENV", "local")
	t.Setenv("SIGNUP_DATABASE__URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "signup", cfg.Database.Name)
	assert.Equal(t, "signup", cfg.Database.AppName)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Zero(t, cfg.Database.IndexWidth)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 1.0, cfg.Server.SignupRateLimit)
	assert.Equal(t, 5, cfg.Server.SignupBurst)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "signup", cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SIGNUP_PRIMARY__ENV", "production")
	t.Setenv("SIGNUP_DATABASE__DRIVER", "memory")
	t.Setenv("SIGNUP_DATABASE__NAME", "accounts")
	t.Setenv("SIGNUP_DATABASE__CONNECT_TIMEOUT", "3s")
	t.Setenv("SIGNUP_DATABASE__INDEX_WIDTH", "2")
	t.Setenv("SIGNUP_OBSERVABILITY__LOGGING__LEVEL", "warn")
	t.Setenv("SIGNUP_OBSERVABILITY__LOGGING__FORMAT", "console")
	t.Setenv("SIGNUP_SERVER__PORT", "9090")
	t.Setenv("SIGNUP_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Empty(t, cfg.Database.URI)
	assert.Equal(t, "accounts", cfg.Database.Name)
	assert.Equal(t, 3*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 2, cfg.Database.IndexWidth)
	assert.Equal(t, "warn", cfg.Observability.GetLogLevel())
	assert.Equal(t, "console", cfg.Observability.Logging.Format)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing env",
			env:  map[string]string{"SIGNUP_DATABASE__URI": "mongodb://localhost"},
		},
		{
			name: "mongo without uri",
			env:  map[string]string{"SIGNUP_PRIMARY__ENV": "local"},
		},
		{
			name: "unknown driver",
			env: map[string]string{
				"SIGNUP_PRIMARY__ENV":     "local",
				"SIGNUP_DATABASE__DRIVER": "postgres",
			},
		},
		{
			name: "negative index width",
			env: map[string]string{
				"SIGNUP_PRIMARY__ENV":          "local",
				"SIGNUP_DATABASE__DRIVER":      "memory",
				"SIGNUP_DATABASE__INDEX_WIDTH": "-1",
			},
		},
		{
			name: "bad log level",
			env: map[string]string{
				"SIGNUP_PRIMARY__ENV":                  "local",
				"SIGNUP_DATABASE__DRIVER":              "memory",
				"SIGNUP_OBSERVABILITY__LOGGING__LEVEL": "verbose",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  string
	}{
		{env: "production", want: "info"},
		{env: "development", want: "debug"},
		{env: "local", want: "debug"},
		{env: "staging", want: "info"},
		{env: "production", level: "error", want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			c := &ObservabilityConfig{Environment: tt.env, Logging: LoggingConfig{Level: tt.level}}
			assert.Equal(t, tt.want, c.GetLogLevel())
		})
	}
}

func TestObservabilityConfig_Validate(t *testing.T) {
	c := DefaultObservabilityConfig()
	require.NoError(t, c.Validate())

	c.Logging.Format = "xml"
	assert.Error(t, c.Validate())

	c = DefaultObservabilityConfig()
	c.Logging.MaxBackups = -1
	assert.Error(t, c.Validate())

	c = DefaultObservabilityConfig()
	c.ServiceName = ""
	assert.Error(t, c.Validate())
}
