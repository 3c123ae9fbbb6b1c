package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_PORT", "DB_DRIVER", "DB_PATH", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
		"SESSION_SECRET", "SESSION_TTL", "REDIS_ADDR", "REDIS_PASS", "REDIS_DB", "IS_PROD", "AI_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	c := LoadConfig()
	require.NotNil(t, c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "users.db", c.DBPath)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, 0, c.RedisDB)
	assert.False(t, c.IsProd)
	assert.Empty(t, c.SessionSecret)
	assert.Empty(t, c.AIKey)
	assert.False(t, c.ReadingEnabled())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "users")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("IS_PROD", "true")
	t.Setenv("AI_API_KEY", "key")

	c := LoadConfig()

	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "app:pw@tcp(db:3307)/users?parseTime=true", c.DSN())
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, 2, c.RedisDB)
	assert.True(t, c.IsProd)
	assert.True(t, c.ReadingEnabled())
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_BadNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("SESSION_TTL", "forever")

	c := LoadConfig()

	assert.Equal(t, 0, c.RedisDB)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{DBDriver: DriverSQLite, DBPath: "users.db", SessionSecret: "x", SessionTTL: time.Hour}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid sqlite", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.SessionSecret = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: true},
		{name: "mysql without name", mutate: func(c *Config) { c.DBDriver = DriverMySQL }, wantErr: true},
		{name: "mysql with name", mutate: func(c *Config) { c.DBDriver = DriverMySQL; c.DBName = "users" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	c := valid()
	c.SessionSecret = ""
	assert.ErrorIs(t, c.Validate(), ErrMissingSessionSecret)
}
