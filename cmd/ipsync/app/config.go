package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/edgewatch/ipsync"
	"github.com/edgewatch/ipsync/pkg/publish"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file actually used, if any
	ConfigFile string

	// Repository layout
	RepoDir   string
	ListDir   string
	BackupDir string
	Manifest  string

	// GeoIP database
	GeoDBPath   string
	ForceUpdate bool

	// Upstream store
	Remote string
	Branch string

	// Publish retry policy
	MaxAttempts int
	RetryDelay  time.Duration
	TriggerHour int

	// Status sink
	WebhookURL string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (.ipsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ipsync")
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		RepoDir:   viper.GetString("repo_dir"),
		ListDir:   viper.GetString("list_dir"),
		BackupDir: viper.GetString("backup_dir"),
		Manifest:  viper.GetString("sources_manifest"),

		GeoDBPath:   viper.GetString("geo_db_path"),
		ForceUpdate: viper.GetString("force_update") == "true",

		Remote: viper.GetString("git_remote"),
		Branch: viper.GetString("git_branch"),

		MaxAttempts: viper.GetInt("push_retries"),
		RetryDelay:  viper.GetDuration("retry_delay"),
		TriggerHour: viper.GetInt("trigger_hour"),

		WebhookURL: viper.GetString("notify_webhook"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	config.applyDefaults()
	return config, nil
}

// applyDefaults fills in zero values with the library defaults.
func (c *Config) applyDefaults() {
	if c.RepoDir == "" {
		c.RepoDir = "."
	}
	if c.ListDir == "" {
		c.ListDir = ipsync.DefaultListDir
	}
	if c.Manifest == "" {
		c.Manifest = ipsync.DefaultManifestPath
	}
	if c.GeoDBPath == "" {
		c.GeoDBPath = ipsync.DefaultGeoDBPath
	}
	if c.Remote == "" {
		c.Remote = "origin"
	}
	if c.Branch == "" {
		c.Branch = "main"
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = publish.DefaultMaxAttempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = publish.DefaultRetryDelay
	}
	if !viper.IsSet("trigger_hour") && c.TriggerHour == 0 {
		c.TriggerHour = publish.DefaultTriggerHour
	}
}

// UpdateFromFlags updates config values from parsed command flags, so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
}

// loadEnvFiles loads .env files in order of precedence. Inside CI the
// environment is authoritative and .env files are skipped.
func loadEnvFiles() {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return
	}
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// getEnvOrDefault returns an environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
