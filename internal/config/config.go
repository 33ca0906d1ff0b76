package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Scan     ScanConfig     `yaml:"scan"`
	TUI      TUIConfig      `yaml:"tui"`
	Crypto   CryptoConfig   `yaml:"crypto"`
	CLI      CLIConfig      `yaml:"cli"`
	Keystore KeystoreConfig `yaml:"keystore"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ScanConfig contains directory-scan concurrency configuration
type ScanConfig struct {
	PoolSize          int           `yaml:"pool_size"`
	MaxBlockingTasks  int           `yaml:"max_blocking_tasks"`
	UpdateInterval    time.Duration `yaml:"update_interval"`
	HealthCheckPeriod time.Duration `yaml:"health_check_period"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	FailureCacheSize  int           `yaml:"failure_cache_size"`
}

// TUIConfig contains TUI-related configuration
type TUIConfig struct {
	Enabled          bool          `yaml:"enabled"`
	RefreshRate      time.Duration `yaml:"refresh_rate"`
	ProgressBarWidth int           `yaml:"progress_bar_width"`
	MaxTableRows     int           `yaml:"max_table_rows"`
	ColorSupport     string        `yaml:"color_support"`   // auto, enabled, disabled
	UnicodeSupport   string        `yaml:"unicode_support"` // auto, enabled, disabled
}

// CryptoConfig contains cryptographic configuration
type CryptoConfig struct {
	SecureRandom   bool `yaml:"secure_random"`
	MemoryClearing bool `yaml:"memory_clearing"`
}

// CLIConfig contains CLI-related configuration
type CLIConfig struct {
	ProgressUpdateInterval time.Duration `yaml:"progress_update_interval"`
	VerboseOutput          bool          `yaml:"verbose_output"`
	QuietMode              bool          `yaml:"quiet_mode"`
}

// KeystoreConfig contains ERC-2335 keystore decode/encode configuration
type KeystoreConfig struct {
	DefaultKDF      string `yaml:"default_kdf"`       // scrypt or pbkdf2, used by Encode
	ScryptN         int    `yaml:"scrypt_n"`           // must stay a power of two
	ScryptR         int    `yaml:"scrypt_r"`
	ScryptP         int    `yaml:"scrypt_p"`
	PBKDF2Iterations int   `yaml:"pbkdf2_iterations"`
	RequireEmptyPath bool  `yaml:"require_empty_path"` // reject any non-empty derivation path
}

// CacheConfig contains bounded-LRU cache sizing, one entry per cache kind
type CacheConfig struct {
	Generic      CacheSizing `yaml:"generic"`
	BlockStates  CacheSizing `yaml:"block_states"`
}

// CacheSizing holds the two knobs the cache coordinator needs: the hard
// capacity and how many extra entries, past the overflow, to evict on
// each prune.
type CacheSizing struct {
	MaxEntries     int `yaml:"max_entries"`
	BatchPruneSize int `yaml:"batch_prune_size"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	OutputFile  string `yaml:"output_file"`
	MaxFileSize int64  `yaml:"max_file_size"`
	MaxFiles    int    `yaml:"max_files"`
	BufferSize  int    `yaml:"buffer_size"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			PoolSize:          runtime.NumCPU() * 2,
			MaxBlockingTasks:  10000,
			UpdateInterval:    100 * time.Millisecond,
			HealthCheckPeriod: time.Second,
			ShutdownTimeout:   5 * time.Second,
			FailureCacheSize:  256,
		},
		TUI: TUIConfig{
			Enabled:          true,
			RefreshRate:      500 * time.Millisecond,
			ProgressBarWidth: 40,
			MaxTableRows:     8,
			ColorSupport:     "auto",
			UnicodeSupport:   "auto",
		},
		Crypto: CryptoConfig{
			SecureRandom:   true,
			MemoryClearing: true,
		},
		CLI: CLIConfig{
			ProgressUpdateInterval: 500 * time.Millisecond,
			VerboseOutput:          false,
			QuietMode:              false,
		},
		Keystore: KeystoreConfig{
			DefaultKDF:       "scrypt",
			ScryptN:          262144,
			ScryptR:          8,
			ScryptP:          1,
			PBKDF2Iterations: 262144,
			RequireEmptyPath: true,
		},
		Cache: CacheConfig{
			Generic:     CacheSizing{MaxEntries: 512, BatchPruneSize: 32},
			BlockStates: CacheSizing{MaxEntries: 128, BatchPruneSize: 16},
		},
		Logging: LoggingConfig{
			Enabled:     true,
			Level:       "info",
			Format:      "text",
			OutputFile:  "",
			MaxFileSize: 10 * 1024 * 1024, // 10MB
			MaxFiles:    5,
			BufferSize:  1000,
		},
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	// Scan configuration
	if poolSize := os.Getenv("ETH2VAULT_SCAN_POOL_SIZE"); poolSize != "" {
		if val, err := strconv.Atoi(poolSize); err == nil && val > 0 {
			c.Scan.PoolSize = val
		}
	}

	if failureCacheSize := os.Getenv("ETH2VAULT_SCAN_FAILURE_CACHE_SIZE"); failureCacheSize != "" {
		if val, err := strconv.Atoi(failureCacheSize); err == nil && val > 0 {
			c.Scan.FailureCacheSize = val
		}
	}

	// TUI configuration
	if tuiEnabled := os.Getenv("ETH2VAULT_TUI"); tuiEnabled != "" {
		c.TUI.Enabled = parseBoolEnv(tuiEnabled, c.TUI.Enabled)
	}

	if colorSupport := os.Getenv("ETH2VAULT_COLOR"); colorSupport != "" {
		c.TUI.ColorSupport = colorSupport
	}

	// Check NO_COLOR standard
	if os.Getenv("NO_COLOR") != "" {
		c.TUI.ColorSupport = "disabled"
	}

	// CLI configuration
	if verbose := os.Getenv("ETH2VAULT_VERBOSE"); verbose != "" {
		c.CLI.VerboseOutput = parseBoolEnv(verbose, c.CLI.VerboseOutput)
	}

	if quiet := os.Getenv("ETH2VAULT_QUIET"); quiet != "" {
		c.CLI.QuietMode = parseBoolEnv(quiet, c.CLI.QuietMode)
	}

	// Keystore configuration
	if kdf := os.Getenv("ETH2VAULT_KEYSTORE_KDF"); kdf != "" {
		c.Keystore.DefaultKDF = kdf
	}

	if scryptN := os.Getenv("ETH2VAULT_KEYSTORE_SCRYPT_N"); scryptN != "" {
		if val, err := strconv.Atoi(scryptN); err == nil && val > 0 {
			c.Keystore.ScryptN = val
		}
	}

	// Cache configuration
	if maxEntries := os.Getenv("ETH2VAULT_CACHE_MAX_ENTRIES"); maxEntries != "" {
		if val, err := strconv.Atoi(maxEntries); err == nil && val > 0 {
			c.Cache.Generic.MaxEntries = val
		}
	}

	if batchPrune := os.Getenv("ETH2VAULT_CACHE_BATCH_PRUNE_SIZE"); batchPrune != "" {
		if val, err := strconv.Atoi(batchPrune); err == nil && val > 0 {
			c.Cache.Generic.BatchPruneSize = val
		}
	}

	if maxEntries := os.Getenv("ETH2VAULT_BLOCK_STATES_MAX_ENTRIES"); maxEntries != "" {
		if val, err := strconv.Atoi(maxEntries); err == nil && val > 0 {
			c.Cache.BlockStates.MaxEntries = val
		}
	}

	if batchPrune := os.Getenv("ETH2VAULT_BLOCK_STATES_BATCH_PRUNE_SIZE"); batchPrune != "" {
		if val, err := strconv.Atoi(batchPrune); err == nil && val > 0 {
			c.Cache.BlockStates.BatchPruneSize = val
		}
	}

	// Logging configuration
	if loggingEnabled := os.Getenv("ETH2VAULT_LOGGING_ENABLED"); loggingEnabled != "" {
		c.Logging.Enabled = parseBoolEnv(loggingEnabled, c.Logging.Enabled)
	}

	if logLevel := os.Getenv("ETH2VAULT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("ETH2VAULT_LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if logFile := os.Getenv("ETH2VAULT_LOG_FILE"); logFile != "" {
		c.Logging.OutputFile = logFile
	}
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate scan configuration
	if c.Scan.PoolSize <= 0 {
		return fmt.Errorf("scan pool size must be positive, got %d", c.Scan.PoolSize)
	}

	if c.Scan.PoolSize > 4096 {
		return fmt.Errorf("scan pool size too high (max 4096), got %d", c.Scan.PoolSize)
	}

	if c.Scan.FailureCacheSize <= 0 {
		return fmt.Errorf("scan failure cache size must be positive, got %d", c.Scan.FailureCacheSize)
	}

	// Validate TUI configuration
	if c.TUI.ProgressBarWidth <= 0 {
		return fmt.Errorf("TUI progress bar width must be positive, got %d", c.TUI.ProgressBarWidth)
	}

	if c.TUI.MaxTableRows <= 0 {
		return fmt.Errorf("TUI max table rows must be positive, got %d", c.TUI.MaxTableRows)
	}

	validColorSettings := []string{"auto", "enabled", "disabled"}
	if !contains(validColorSettings, c.TUI.ColorSupport) {
		return fmt.Errorf("invalid color support setting: %s (valid: %v)",
			c.TUI.ColorSupport, validColorSettings)
	}

	validUnicodeSettings := []string{"auto", "enabled", "disabled"}
	if !contains(validUnicodeSettings, c.TUI.UnicodeSupport) {
		return fmt.Errorf("invalid unicode support setting: %s (valid: %v)",
			c.TUI.UnicodeSupport, validUnicodeSettings)
	}

	// Validate CLI configuration - quiet and verbose are mutually exclusive
	if c.CLI.QuietMode && c.CLI.VerboseOutput {
		return fmt.Errorf("quiet mode and verbose output are mutually exclusive")
	}

	// Validate keystore configuration
	validKDFAlgorithms := []string{"scrypt", "pbkdf2"}
	if !contains(validKDFAlgorithms, c.Keystore.DefaultKDF) {
		return fmt.Errorf("invalid default KDF: %s (valid: %v)",
			c.Keystore.DefaultKDF, validKDFAlgorithms)
	}

	if c.Keystore.ScryptN <= 1 || c.Keystore.ScryptN&(c.Keystore.ScryptN-1) != 0 {
		return fmt.Errorf("scrypt N must be a power of two greater than 1, got %d", c.Keystore.ScryptN)
	}

	if c.Keystore.PBKDF2Iterations <= 0 {
		return fmt.Errorf("pbkdf2 iteration count must be positive, got %d", c.Keystore.PBKDF2Iterations)
	}

	// Validate cache configuration
	for name, sizing := range map[string]CacheSizing{"generic": c.Cache.Generic, "block_states": c.Cache.BlockStates} {
		if sizing.MaxEntries <= 0 {
			return fmt.Errorf("%s cache max entries must be positive, got %d", name, sizing.MaxEntries)
		}
		if sizing.BatchPruneSize <= 0 {
			return fmt.Errorf("%s cache batch prune size must be positive, got %d", name, sizing.BatchPruneSize)
		}
		if sizing.BatchPruneSize > sizing.MaxEntries {
			return fmt.Errorf("%s cache batch prune size (%d) must be <= max entries (%d)",
				name, sizing.BatchPruneSize, sizing.MaxEntries)
		}
	}

	// Validate Logging configuration
	validLogLevels := []string{"error", "warn", "info", "debug"}
	if !contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)",
			c.Logging.Level, validLogLevels)
	}

	validLogFormats := []string{"text", "json", "structured"}
	if !contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)",
			c.Logging.Format, validLogFormats)
	}

	if c.Logging.MaxFileSize <= 0 {
		return fmt.Errorf("log max file size must be positive, got %d", c.Logging.MaxFileSize)
	}

	if c.Logging.MaxFiles < 0 {
		return fmt.Errorf("log max files must be non-negative, got %d", c.Logging.MaxFiles)
	}

	if c.Logging.BufferSize < 0 {
		return fmt.Errorf("log buffer size must be non-negative, got %d", c.Logging.BufferSize)
	}

	return nil
}

// ApplyOverrides applies command-line overrides to the configuration
func (c *Config) ApplyOverrides(overrides ConfigOverrides) {
	if overrides.ScanPoolSize != nil {
		c.Scan.PoolSize = *overrides.ScanPoolSize
	}

	if overrides.TUIEnabled != nil {
		c.TUI.Enabled = *overrides.TUIEnabled
	}

	if overrides.VerboseOutput != nil {
		c.CLI.VerboseOutput = *overrides.VerboseOutput
	}

	if overrides.QuietMode != nil {
		c.CLI.QuietMode = *overrides.QuietMode
	}

	if overrides.KeystoreKDF != nil {
		c.Keystore.DefaultKDF = *overrides.KeystoreKDF
	}

	if overrides.CacheMaxEntries != nil {
		c.Cache.Generic.MaxEntries = *overrides.CacheMaxEntries
	}

	if overrides.LoggingEnabled != nil {
		c.Logging.Enabled = *overrides.LoggingEnabled
	}

	if overrides.LogLevel != nil {
		c.Logging.Level = *overrides.LogLevel
	}

	if overrides.LogFormat != nil {
		c.Logging.Format = *overrides.LogFormat
	}

	if overrides.LogFile != nil {
		c.Logging.OutputFile = *overrides.LogFile
	}
}

// ConfigOverrides represents command-line configuration overrides
type ConfigOverrides struct {
	ScanPoolSize    *int
	TUIEnabled      *bool
	VerboseOutput   *bool
	QuietMode       *bool
	KeystoreKDF     *string
	CacheMaxEntries *int
	LoggingEnabled  *bool
	LogLevel        *string
	LogFormat       *string
	LogFile         *string
}

// parseBoolEnv parses a boolean environment variable with fallback
func parseBoolEnv(value string, fallback bool) bool {
	switch value {
	case "true", "1", "yes", "on", "enabled", "force":
		return true
	case "false", "0", "no", "off", "disabled":
		return false
	default:
		return fallback
	}
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// GetEffectiveScanPoolSize returns the effective pool size considering system limits
func (c *Config) GetEffectiveScanPoolSize() int {
	maxRecommended := runtime.NumCPU() * 4
	if c.Scan.PoolSize > maxRecommended {
		return maxRecommended
	}
	return c.Scan.PoolSize
}

// IsTUIEnabled returns whether TUI should be enabled based on configuration and environment
func (c *Config) IsTUIEnabled() bool {
	if !c.TUI.Enabled {
		return false
	}

	// Check if we're in a CI environment
	ciEnvVars := []string{
		"CI", "CONTINUOUS_INTEGRATION", "BUILD_NUMBER", "JENKINS_URL",
		"TRAVIS", "CIRCLECI", "APPVEYOR", "GITLAB_CI", "BUILDKITE",
		"DRONE", "GITHUB_ACTIONS", "TF_BUILD", "TEAMCITY_VERSION",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return true
}
