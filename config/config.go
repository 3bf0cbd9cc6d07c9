package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	dbconfig "github.com/solcore-labs/corecollection/orm/config"
	"github.com/solcore-labs/corecollection/types"
)

var (
	Version    = "dev"
	CommitHash = "unknown"

	// Singleton instance
	configInstance *Config
	configOnce     sync.Once
)

// Default configuration constants
const (
	// Port settings
	DefaultAPIPort     = "8080"
	DefaultMetricsPort = "9090"
	MinPortNumber      = 1
	MaxPortNumber      = 65535

	// Database settings
	DefaultDBMaxConns   = 10
	DefaultDBIdleConns  = 2
	DefaultDBBatchSize  = 100
	DefaultMigrationDir = "orm/migrations"

	// Cluster settings
	DefaultCluster           = "localnet"
	DefaultRPCURL            = "http://127.0.0.1:8899"
	DefaultCommitment        = "confirmed"
	DefaultConfirmTimeout    = 60 * time.Second
	DefaultConfirmPoll       = 500 * time.Millisecond
	DefaultMinClusterVersion = "v1.18.0"

	// Cache settings
	DefaultCacheSize        = 1000
	DefaultCacheTTL         = 10 * time.Minute
	DefaultAccountCacheSize = 40960

	// Timeout and interval settings
	DefaultQueryTimeout    = 30 * time.Second
	DefaultPollingInterval = 3 * time.Second

	// Concurrent request settings
	DefaultMaxConcurrentRequests = 50
	MaxAllowedConcurrentRequests = 1000

	// RabbitMQ settings
	DefaultRabbitMQPort       = 5552
	DefaultRabbitMQVHost      = "/"
	DefaultRabbitMQPartitions = 3
	DefaultRabbitMQStream     = "corecollection"

	// Metrics settings
	DefaultMetricsPath = "/metrics"

	// Default environment
	DefaultEnvironment = "local"
)

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
	Port    string `json:"port"`
}

// SentryConfig contains configuration for Sentry integration
type SentryConfig struct {
	DSN                string  `json:"dsn"`
	SampleRate         float64 `json:"sample_rate"`          // General sample rate (fallback)
	TracesSampleRate   float64 `json:"traces_sample_rate"`   // Traces sample rate
	ProfilesSampleRate float64 `json:"profiles_sample_rate"` // Profiles sample rate
	Environment        string  `json:"environment"`
}

// RabbitMQConfig describes the stream broker the indexer publishes to.
// An empty Host disables publishing.
type RabbitMQConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	VHost      string `json:"vhost"`
	User       string `json:"user"`
	Password   string `json:"-"`
	Partitions int    `json:"partitions"`
	Stream     string `json:"stream"`
}

func (r RabbitMQConfig) Enabled() bool {
	return r.Host != ""
}

func SetBuildInfo(v, commit string) {
	Version = v
	CommitHash = commit
}

type Config struct {
	listenPort            string
	dbConfig              *dbconfig.Config
	clusterConfig         *ClusterConfig
	logLevel              string
	logFormat             string
	keypairPath           string
	queryTimeout          time.Duration // bounds each api database query
	pollingInterval       time.Duration // for indexer only
	maxConcurrentRequests int           // for indexer only
	accountCacheSize      int           // for indexer only
	minClusterVersion     string        // for indexer only
	cacheSize             int           // for api only
	cacheTTL              time.Duration // for api only
	metricsConfig         *MetricsConfig
	sentryConfig          *SentryConfig
	rabbitMQConfig        *RabbitMQConfig
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

func setDefaults() {
	viper.SetDefault("PORT", DefaultAPIPort)
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("DB_BATCH_SIZE", DefaultDBBatchSize)
	viper.SetDefault("DB_MAX_CONNS", DefaultDBMaxConns)
	viper.SetDefault("DB_IDLE_CONNS", DefaultDBIdleConns)
	viper.SetDefault("DB_MIGRATION_DIR", DefaultMigrationDir)
	viper.SetDefault("CLUSTER", DefaultCluster)
	viper.SetDefault("RPC_URL", DefaultRPCURL)
	viper.SetDefault("COMMITMENT", DefaultCommitment)
	viper.SetDefault("CONFIRM_TIMEOUT", DefaultConfirmTimeout)
	viper.SetDefault("POLL_INTERVAL", DefaultConfirmPoll)
	viper.SetDefault("KEYPAIR_PATH", defaultKeypairPath())
	viper.SetDefault("MIN_CLUSTER_VERSION", DefaultMinClusterVersion)
	viper.SetDefault("QUERY_TIMEOUT", DefaultQueryTimeout)
	viper.SetDefault("POLLING_INTERVAL", DefaultPollingInterval)
	viper.SetDefault("MAX_CONCURRENT_REQUESTS", DefaultMaxConcurrentRequests)
	viper.SetDefault("LOG_LEVEL", "warn")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("CACHE_SIZE", DefaultCacheSize)
	viper.SetDefault("CACHE_TTL", DefaultCacheTTL)
	viper.SetDefault("ACCOUNT_CACHE_SIZE", DefaultAccountCacheSize)
	viper.SetDefault("METRICS_ENABLED", false)
	viper.SetDefault("METRICS_PATH", DefaultMetricsPath)
	viper.SetDefault("METRICS_PORT", DefaultMetricsPort)
	viper.SetDefault("ENVIRONMENT", DefaultEnvironment)

	// RabbitMQ defaults, publishing stays off until RABBITMQ_HOST is set
	viper.SetDefault("RABBITMQ_HOST", "")
	viper.SetDefault("RABBITMQ_PORT", DefaultRabbitMQPort)
	viper.SetDefault("RABBITMQ_VHOST", DefaultRabbitMQVHost)
	viper.SetDefault("RABBITMQ_USER", "guest")
	viper.SetDefault("RABBITMQ_PASSWORD", "guest")
	viper.SetDefault("RABBITMQ_PARTITIONS", DefaultRabbitMQPartitions)
	viper.SetDefault("RABBITMQ_STREAM", DefaultRabbitMQStream)

	// Sentry defaults
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("SENTRY_SAMPLE_RATE", 0.01)
	viper.SetDefault("SENTRY_TRACES_SAMPLE_RATE", 0.01)
	viper.SetDefault("SENTRY_PROFILES_SAMPLE_RATE", 0.01)

	// PROGRAM_ID and DB_DSN have no defaults
}

func GetConfig() (*Config, error) {
	var err error

	configOnce.Do(func() {
		configInstance, err = loadConfig()
	})

	return configInstance, err
}

func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// just log without panic, local testing purpose only
		fmt.Fprintln(os.Stderr, "No .env file found")
	}
	viper.AutomaticEnv()
	setDefaults()

	dc := &dbconfig.Config{
		DSN:          viper.GetString("DB_DSN"),
		AutoMigrate:  viper.GetBool("DB_AUTO_MIGRATE"),
		MaxConns:     viper.GetInt("DB_MAX_CONNS"),
		IdleConns:    viper.GetInt("DB_IDLE_CONNS"),
		BatchSize:    viper.GetInt("DB_BATCH_SIZE"),
		MigrationDir: viper.GetString("DB_MIGRATION_DIR"),
	}

	cc := &ClusterConfig{
		Name:           viper.GetString("CLUSTER"),
		RpcUrl:         viper.GetString("RPC_URL"),
		ProgramId:      viper.GetString("PROGRAM_ID"),
		Commitment:     viper.GetString("COMMITMENT"),
		ConfirmTimeout: viper.GetDuration("CONFIRM_TIMEOUT"),
		PollInterval:   viper.GetDuration("POLL_INTERVAL"),
	}

	config := &Config{
		listenPort:            viper.GetString("PORT"),
		dbConfig:              dc,
		clusterConfig:         cc,
		logLevel:              viper.GetString("LOG_LEVEL"),
		logFormat:             viper.GetString("LOG_FORMAT"),
		keypairPath:           viper.GetString("KEYPAIR_PATH"),
		queryTimeout:          viper.GetDuration("QUERY_TIMEOUT"),
		pollingInterval:       viper.GetDuration("POLLING_INTERVAL"),
		maxConcurrentRequests: viper.GetInt("MAX_CONCURRENT_REQUESTS"),
		accountCacheSize:      viper.GetInt("ACCOUNT_CACHE_SIZE"),
		minClusterVersion:     viper.GetString("MIN_CLUSTER_VERSION"),
		cacheSize:             viper.GetInt("CACHE_SIZE"),
		cacheTTL:              viper.GetDuration("CACHE_TTL"),
		metricsConfig: &MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
			Port:    viper.GetString("METRICS_PORT"),
		},
		sentryConfig: &SentryConfig{
			DSN:                viper.GetString("SENTRY_DSN"),
			SampleRate:         viper.GetFloat64("SENTRY_SAMPLE_RATE"),
			TracesSampleRate:   viper.GetFloat64("SENTRY_TRACES_SAMPLE_RATE"),
			ProfilesSampleRate: viper.GetFloat64("SENTRY_PROFILES_SAMPLE_RATE"),
			Environment:        viper.GetString("ENVIRONMENT"),
		},
		rabbitMQConfig: &RabbitMQConfig{
			Host:       viper.GetString("RABBITMQ_HOST"),
			Port:       viper.GetInt("RABBITMQ_PORT"),
			VHost:      viper.GetString("RABBITMQ_VHOST"),
			User:       viper.GetString("RABBITMQ_USER"),
			Password:   viper.GetString("RABBITMQ_PASSWORD"),
			Partitions: viper.GetInt("RABBITMQ_PARTITIONS"),
			Stream:     viper.GetString("RABBITMQ_STREAM"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// NewDefaultConfig returns a config built from the defaults only, without
// reading the environment. Used by tests and the simulated CLI mode.
func NewDefaultConfig() *Config {
	return &Config{
		listenPort: DefaultAPIPort,
		dbConfig: &dbconfig.Config{
			MaxConns:     DefaultDBMaxConns,
			IdleConns:    DefaultDBIdleConns,
			BatchSize:    DefaultDBBatchSize,
			MigrationDir: DefaultMigrationDir,
		},
		clusterConfig: &ClusterConfig{
			Name:           DefaultCluster,
			RpcUrl:         DefaultRPCURL,
			Commitment:     DefaultCommitment,
			ConfirmTimeout: DefaultConfirmTimeout,
			PollInterval:   DefaultConfirmPoll,
		},
		logLevel:              "warn",
		logFormat:             "json",
		keypairPath:           defaultKeypairPath(),
		queryTimeout:          DefaultQueryTimeout,
		pollingInterval:       DefaultPollingInterval,
		maxConcurrentRequests: DefaultMaxConcurrentRequests,
		accountCacheSize:      DefaultAccountCacheSize,
		minClusterVersion:     DefaultMinClusterVersion,
		cacheSize:             DefaultCacheSize,
		cacheTTL:              DefaultCacheTTL,
		metricsConfig: &MetricsConfig{
			Path: DefaultMetricsPath,
			Port: DefaultMetricsPort,
		},
		sentryConfig: &SentryConfig{Environment: DefaultEnvironment},
		rabbitMQConfig: &RabbitMQConfig{
			Port:       DefaultRabbitMQPort,
			VHost:      DefaultRabbitMQVHost,
			Partitions: DefaultRabbitMQPartitions,
			Stream:     DefaultRabbitMQStream,
		},
	}
}

func (c Config) GetListenPort() string {
	return c.listenPort
}

// SetDBConfig assigns the DB config for testing purposes.
func (c *Config) SetDBConfig(dbCfg *dbconfig.Config) {
	c.dbConfig = dbCfg
}

func (c Config) GetDBConfig() *dbconfig.Config {
	return c.dbConfig
}

// SetClusterConfig assigns the cluster config for testing purposes.
func (c *Config) SetClusterConfig(clusterCfg *ClusterConfig) {
	c.clusterConfig = clusterCfg
}

func (c Config) GetClusterConfig() *ClusterConfig {
	return c.clusterConfig
}

func (c Config) GetCluster() string {
	return c.clusterConfig.Name
}

func (c Config) GetKeypairPath() string {
	return c.keypairPath
}

func (c Config) GetDBBatchSize() int {
	return c.dbConfig.BatchSize
}

func (c Config) GetCacheSize() int {
	return c.cacheSize
}

func (c Config) GetCacheTTL() time.Duration {
	return c.cacheTTL
}

func (c Config) GetAccountCacheSize() int {
	return c.accountCacheSize
}

// SetPollingInterval overrides the indexer polling interval for testing purposes.
func (c *Config) SetPollingInterval(d time.Duration) {
	c.pollingInterval = d
}

func (c Config) GetPollingInterval() time.Duration {
	return c.pollingInterval
}

func (c Config) GetMinClusterVersion() string {
	return c.minClusterVersion
}

func (c Config) GetSentryConfig() *SentryConfig {
	if c.sentryConfig == nil || c.sentryConfig.DSN == "" {
		return nil
	}
	return c.sentryConfig
}

func (c Config) GetRabbitMQConfig() *RabbitMQConfig {
	return c.rabbitMQConfig
}

func (c Config) GetLogLevel() slog.Level {
	switch c.logLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetQueryTimeout overrides the API query timeout for testing purposes.
func (c *Config) SetQueryTimeout(d time.Duration) {
	c.queryTimeout = d
}

func (c Config) GetQueryTimeout() time.Duration {
	return c.queryTimeout
}

func (c Config) GetMaxConcurrentRequests() int {
	return c.maxConcurrentRequests
}

func (c Config) GetMetricsConfig() *MetricsConfig {
	return c.metricsConfig
}

func (c Config) GetLogFormat() string {
	if c.logFormat == "json" {
		return "json"
	}
	return "plain"
}

func (c Config) Validate() error {
	if err := c.validatePort(); err != nil {
		return err
	}
	if err := c.validateLogSettings(); err != nil {
		return err
	}
	if err := c.validateNumericSettings(); err != nil {
		return err
	}
	if err := c.validateMetricsConfig(); err != nil {
		return err
	}
	if err := c.validateRabbitMQConfig(); err != nil {
		return err
	}
	if err := c.validateSubConfigs(); err != nil {
		return err
	}
	return nil
}

// validatePort validates the listen port configuration
func (c Config) validatePort() error {
	if len(c.listenPort) == 0 {
		return types.NewValidationError("PORT", "required field is missing")
	}
	if port, err := strconv.Atoi(c.listenPort); err != nil || port < MinPortNumber || port > MaxPortNumber {
		return types.NewValidationError("PORT", fmt.Sprintf("must be a valid port number (%d-%d)", MinPortNumber, MaxPortNumber))
	}
	return nil
}

// validateLogSettings validates log format and level configuration
func (c Config) validateLogSettings() error {
	switch c.logFormat {
	case "json", "plain":
		break
	default:
		return types.NewValidationError("LOG_FORMAT", fmt.Sprintf("invalid value '%s', must be 'json' or 'plain'", c.logFormat))
	}

	switch c.logLevel {
	case "debug", "info", "warn", "error":
		break
	default:
		return types.NewValidationError("LOG_LEVEL", fmt.Sprintf("invalid value '%s', must be one of: debug, info, warn, error", c.logLevel))
	}
	return nil
}

// validateNumericSettings validates all numeric configuration values
func (c Config) validateNumericSettings() error {
	if c.cacheSize < 0 {
		return types.NewValidationError("CACHE_SIZE", "must be non-negative")
	}
	if c.cacheTTL < 0 {
		return types.NewValidationError("CACHE_TTL", "must be non-negative")
	}
	if c.accountCacheSize < 1 {
		return types.NewValidationError("ACCOUNT_CACHE_SIZE", "must be at least 1")
	}
	if c.pollingInterval <= 0 {
		return types.NewValidationError("POLLING_INTERVAL", "must be positive")
	}
	if c.queryTimeout <= 0 {
		return types.NewValidationError("QUERY_TIMEOUT", "must be positive")
	}
	if c.maxConcurrentRequests < 1 {
		return types.NewValidationError("MAX_CONCURRENT_REQUESTS", "must be at least 1")
	}
	if c.maxConcurrentRequests > MaxAllowedConcurrentRequests {
		return types.NewInvalidValueError("MAX_CONCURRENT_REQUESTS", fmt.Sprintf("%d", c.maxConcurrentRequests), fmt.Sprintf("must not exceed %d", MaxAllowedConcurrentRequests))
	}
	return nil
}

// validateMetricsConfig validates metrics configuration
func (c Config) validateMetricsConfig() error {
	if c.metricsConfig != nil && c.metricsConfig.Enabled {
		if err := c.validateMetricsPort(); err != nil {
			return err
		}
		if err := c.validateMetricsPath(); err != nil {
			return err
		}
	}
	return nil
}

// validateMetricsPort validates the metrics port configuration
func (c Config) validateMetricsPort() error {
	if port, err := strconv.Atoi(c.metricsConfig.Port); err != nil || port < MinPortNumber || port > MaxPortNumber {
		return types.NewValidationError("METRICS_PORT", fmt.Sprintf("must be a valid port number (%d-%d)", MinPortNumber, MaxPortNumber))
	}
	if c.metricsConfig.Port == c.listenPort {
		return types.NewValidationError("METRICS_PORT", fmt.Sprintf("metrics port %s conflicts with API port", c.metricsConfig.Port))
	}
	return nil
}

// validateMetricsPath validates the metrics path configuration
func (c Config) validateMetricsPath() error {
	if c.metricsConfig.Path == "" || c.metricsConfig.Path[0] != '/' {
		return types.NewValidationError("METRICS_PATH", "must start with '/'")
	}
	return nil
}

func (c Config) validateRabbitMQConfig() error {
	if c.rabbitMQConfig == nil || !c.rabbitMQConfig.Enabled() {
		return nil
	}
	if c.rabbitMQConfig.Port < MinPortNumber || c.rabbitMQConfig.Port > MaxPortNumber {
		return types.NewValidationError("RABBITMQ_PORT", fmt.Sprintf("must be a valid port number (%d-%d)", MinPortNumber, MaxPortNumber))
	}
	if c.rabbitMQConfig.Partitions < 1 {
		return types.NewValidationError("RABBITMQ_PARTITIONS", "must be at least 1")
	}
	if c.rabbitMQConfig.Stream == "" {
		return types.NewValidationError("RABBITMQ_STREAM", "required when RABBITMQ_HOST is set")
	}
	return nil
}

// validateSubConfigs validates nested configuration objects.
// The database config is checked by the commands that open a database.
func (c Config) validateSubConfigs() error {
	if err := c.clusterConfig.Validate(); err != nil {
		return err
	}
	return nil
}
