package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Driver:        "postgres",
		Host:          "localhost",
		Port:          5432,
		Username:      "app",
		Password:      "secret",
		Database:      "trailer_access",
		SSLMode:       "disable",
		MaxOpenConns:  25,
		MaxIdleConns:  25,
		QueryTimeout:  10 * time.Second,
		LogLevel:      "info",
		RetryAttempts: 3,
		RetryDelay:    5,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("accepts a complete config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing host", func(c *Config) { c.Host = "" }, "host is required"},
		{"port out of range", func(c *Config) { c.Port = 70000 }, "invalid port"},
		{"missing username", func(c *Config) { c.Username = "" }, "username is required"},
		{"missing password", func(c *Config) { c.Password = "" }, "password is required"},
		{"missing database", func(c *Config) { c.Database = "" }, "name is required"},
		{"unsupported driver", func(c *Config) { c.Driver = "mysql" }, "unsupported database driver"},
		{"bad ssl mode", func(c *Config) { c.SSLMode = "maybe" }, "invalid SSL mode"},
		{"zero open conns", func(c *Config) { c.MaxOpenConns = 0 }, "max open connections"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigDSN(t *testing.T) {
	dsn := validConfig().DSN()
	assert.Equal(t, "host=localhost port=5432 user=app password=secret dbname=trailer_access sslmode=disable", dsn)
}

func TestParsePort(t *testing.T) {
	assert.Equal(t, 5433, ParsePort("5433"))
	assert.Equal(t, 5432, ParsePort(""))
	assert.Equal(t, 5432, ParsePort("garbage"))
	assert.Equal(t, 5432, ParsePort("-1"))
	assert.Equal(t, 5432, ParsePort("0"))
}
