package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbconfig "github.com/solcore-labs/corecollection/orm/config"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/types"
)

func validConfig() Config {
	return Config{
		listenPort: DefaultAPIPort,
		dbConfig: &dbconfig.Config{
			DSN:       "postgres://localhost/corecollection",
			MaxConns:  DefaultDBMaxConns,
			IdleConns: DefaultDBIdleConns,
			BatchSize: DefaultDBBatchSize,
		},
		clusterConfig: &ClusterConfig{
			Name:           DefaultCluster,
			RpcUrl:         DefaultRPCURL,
			Commitment:     DefaultCommitment,
			ConfirmTimeout: DefaultConfirmTimeout,
			PollInterval:   DefaultConfirmPoll,
		},
		logLevel:              "info",
		logFormat:             "json",
		queryTimeout:          DefaultQueryTimeout,
		pollingInterval:       DefaultPollingInterval,
		maxConcurrentRequests: DefaultMaxConcurrentRequests,
		accountCacheSize:      DefaultAccountCacheSize,
		cacheSize:             DefaultCacheSize,
		cacheTTL:              DefaultCacheTTL,
		metricsConfig:         &MetricsConfig{Path: DefaultMetricsPath, Port: DefaultMetricsPort},
		sentryConfig:          &SentryConfig{},
		rabbitMQConfig:        &RabbitMQConfig{},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		field   string
		errType types.ErrorType
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.listenPort = "" },
			field:   "PORT",
			errType: types.ErrTypeValidation,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.listenPort = "70000" },
			field:   "PORT",
			errType: types.ErrTypeValidation,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.logFormat = "xml" },
			field:   "LOG_FORMAT",
			errType: types.ErrTypeValidation,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.logLevel = "trace" },
			field:   "LOG_LEVEL",
			errType: types.ErrTypeValidation,
		},
		{
			name:    "too many concurrent requests",
			mutate:  func(c *Config) { c.maxConcurrentRequests = MaxAllowedConcurrentRequests + 1 },
			field:   "MAX_CONCURRENT_REQUESTS",
			errType: types.ErrTypeInvalidValue,
		},
		{
			name: "metrics port conflicts with api port",
			mutate: func(c *Config) {
				c.metricsConfig.Enabled = true
				c.metricsConfig.Port = c.listenPort
			},
			field:   "METRICS_PORT",
			errType: types.ErrTypeValidation,
		},
		{
			name: "metrics path without slash",
			mutate: func(c *Config) {
				c.metricsConfig.Enabled = true
				c.metricsConfig.Path = "metrics"
			},
			field:   "METRICS_PATH",
			errType: types.ErrTypeValidation,
		},
		{
			name: "rabbitmq without partitions",
			mutate: func(c *Config) {
				c.rabbitMQConfig = &RabbitMQConfig{Host: "localhost", Port: DefaultRabbitMQPort, Stream: "s"}
			},
			field:   "RABBITMQ_PARTITIONS",
			errType: types.ErrTypeValidation,
		},
		{
			name:    "rpc url scheme",
			mutate:  func(c *Config) { c.clusterConfig.RpcUrl = "ws://127.0.0.1:8900" },
			field:   "RPC_URL",
			errType: types.ErrTypeValidation,
		},
		{
			name:    "invalid program id",
			mutate:  func(c *Config) { c.clusterConfig.ProgramId = "not-base58-0OIl" },
			field:   "PROGRAM_ID",
			errType: types.ErrTypeInvalidValue,
		},
		{
			name:    "invalid commitment",
			mutate:  func(c *Config) { c.clusterConfig.Commitment = "max" },
			field:   "COMMITMENT",
			errType: types.ErrTypeInvalidValue,
		},
		{
			name:    "poll interval above timeout",
			mutate:  func(c *Config) { c.clusterConfig.PollInterval = 2 * c.clusterConfig.ConfirmTimeout },
			field:   "POLL_INTERVAL",
			errType: types.ErrTypeValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.field == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, types.IsType(err, tc.errType), "unexpected error type: %v", err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestConfig_Accessors(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, slog.LevelInfo, cfg.GetLogLevel())
	assert.Equal(t, "json", cfg.GetLogFormat())
	assert.Nil(t, cfg.GetSentryConfig())
	assert.False(t, cfg.GetRabbitMQConfig().Enabled())

	cfg.logLevel = "unknown"
	cfg.logFormat = "plain"
	assert.Equal(t, slog.LevelWarn, cfg.GetLogLevel())
	assert.Equal(t, "plain", cfg.GetLogFormat())

	cfg.sentryConfig.DSN = "https://key@sentry.example.com/1"
	require.NotNil(t, cfg.GetSentryConfig())
}

func TestClusterConfig_ProgramID(t *testing.T) {
	cc := ClusterConfig{}
	assert.Equal(t, program.ProgramID, cc.GetProgramID())

	cc.ProgramId = program.MplCoreProgramID.String()
	assert.Equal(t, program.MplCoreProgramID, cc.GetProgramID())

	cc.Commitment = "finalized"
	assert.Equal(t, rpc.CommitmentFinalized, cc.GetCommitment())
}

func TestDBConfig_Validate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.GetDBConfig().Validate())

	dc := *cfg.GetDBConfig()
	dc.DSN = ""
	assert.EqualError(t, dc.Validate(), "DB_DSN is required")

	dc = *cfg.GetDBConfig()
	dc.IdleConns = dc.MaxConns + 1
	assert.Error(t, dc.Validate())

	dc = *cfg.GetDBConfig()
	dc.AutoMigrate = true
	assert.EqualError(t, dc.Validate(), "DB_MIGRATION_DIR is required when DB_AUTO_MIGRATE is set")

	cfg.SetDBConfig(&dbconfig.Config{DSN: "x", MaxConns: 1, IdleConns: 1, BatchSize: 1})
	assert.Equal(t, 1, cfg.GetDBBatchSize())
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultCluster, cfg.GetCluster())
	assert.Equal(t, program.ProgramID, cfg.GetClusterConfig().GetProgramID())
	assert.Equal(t, DefaultPollingInterval, cfg.GetPollingInterval())
	assert.False(t, cfg.GetRabbitMQConfig().Enabled())

	cfg.SetPollingInterval(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, cfg.GetPollingInterval())
}
