package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.DB.AcquireTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "0705185868", cfg.Ledger.TreasurerPhone)
	assert.Equal(t, "ledger.events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "postgres://postgres:@localhost:5432/chama?sslmode=disable", cfg.ConnectionString())

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.True(t, policy.RegistrationFee.Equal(decimal.NewFromInt(100)))
	assert.True(t, policy.MonthlyFee.Equal(decimal.NewFromInt(50)))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MONTHLY_FEE", "75.50")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, "75.5", policy.MonthlyFee.String())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		var c Config
		c.App.Port = 8080
		c.Auth.JWTSecret = "s3cret"
		c.DB.AcquireTimeout = time.Second
		c.Ledger.RegistrationFee = "100"
		c.Ledger.MonthlyFee = "50"

		return &c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "Valid",
			mutate: func(*Config) {},
		},
		{
			name:    "PortOutOfRange",
			mutate:  func(c *Config) { c.App.Port = 70000 },
			wantErr: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:    "MissingSecret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "NonPositiveTimeout",
			mutate:  func(c *Config) { c.DB.AcquireTimeout = 0 },
			wantErr: "DB_ACQUIRE_TIMEOUT must be positive",
		},
		{
			name:    "BadFee",
			mutate:  func(c *Config) { c.Ledger.MonthlyFee = "fifty" },
			wantErr: "parsing MONTHLY_FEE",
		},
		{
			name:    "ZeroFee",
			mutate:  func(c *Config) { c.Ledger.RegistrationFee = "0" },
			wantErr: "fees must be greater than zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
