package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVICE_NAME", "SERVER_PORT", "APP_ENV", "JWT_EXPIRES_IN", "FRONTEND_URL", "AUTH_RATE_LIMIT", "KAFKA_BROKERS", "ES_INDEX"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "bag-shop", cfg.ServiceName)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.Production())
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.FrontendURLs)
	assert.Equal(t, 5.0, cfg.AuthRateLimit)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, "bags", cfg.ESIndex)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_IN", "12h")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("AUTH_RATE_LIMIT", "0")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.Production())
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Zero(t, cfg.AuthRateLimit)
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "90m", want: 90 * time.Minute},
		{in: "1h30m", want: 90 * time.Minute},
		{in: "xd", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvDurationDefault_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "-5m")
	assert.Equal(t, time.Hour, EnvDurationDefault("JWT_EXPIRES_IN", time.Hour))
}
