// Package config handles configuration loading and validation for barnsbot.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when no OpenAI credential is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// Config represents the complete barnsbot configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Store  StoreConfig  `mapstructure:"store"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Ingest IngestConfig `mapstructure:"ingest"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	BodyLimit string `mapstructure:"body_limit"`
	MaxFiles  int    `mapstructure:"max_files"`
	UploadDir string `mapstructure:"upload_dir"`
}

// OpenAIConfig configures the OpenAI client.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// StoreConfig configures vector store resolution.
type StoreConfig struct {
	// ID overrides the persisted identifier when set. It is never written back.
	ID     string `mapstructure:"id"`
	IDFile string `mapstructure:"id_file"`
	Name   string `mapstructure:"name"`
}

// LLMConfig configures question answering.
type LLMConfig struct {
	// MaxResults caps file_search hits per question. Zero leaves it to the provider.
	MaxResults int `mapstructure:"max_results"`
}

// IngestConfig configures local directory ingestion.
type IngestConfig struct {
	MaxFileSize int64    `mapstructure:"max_file_size"`
	Ignore      []string `mapstructure:"ignore"`
}

// Global configuration instance
var cfg *Config

// Get returns the current configuration.
func Get() *Config {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      DefaultPort,
			BodyLimit: DefaultBodyLimit,
			MaxFiles:  DefaultMaxFiles,
			UploadDir: DefaultUploadDir,
		},
		OpenAI: OpenAIConfig{
			Model: DefaultModel,
		},
		Store: StoreConfig{
			IDFile: DefaultStoreIDFile,
			Name:   DefaultStoreName,
		},
		Ingest: IngestConfig{
			MaxFileSize: DefaultMaxFileSize,
			Ignore:      DefaultIgnorePatterns(),
		},
	}
}

// Load reads configuration from .env, the config file and environment variables.
func Load(configFile string) error {
	loadDotEnv(".env")

	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(DefaultConfigDir())

		// A .barnsbotrc.yaml in the working tree wins over the global file
		if rcPath := findRCFile(); rcPath != "" {
			viper.SetConfigFile(rcPath)
		}
	}

	viper.SetEnvPrefix("BARNSBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindWellKnownEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config file found, using defaults")
	} else {
		log.Debug("Loaded config from", "file", viper.ConfigFileUsed())
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	cfg.Store.ID = strings.TrimSpace(cfg.Store.ID)

	return nil
}

// Validate reports configuration that makes talking to OpenAI impossible.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Server.MaxFiles <= 0 {
		return fmt.Errorf("server.max_files must be positive, got %d", c.Server.MaxFiles)
	}
	return nil
}

// setDefaults sets default values in viper.
func setDefaults() {
	// Server
	viper.SetDefault("server.port", DefaultPort)
	viper.SetDefault("server.body_limit", DefaultBodyLimit)
	viper.SetDefault("server.max_files", DefaultMaxFiles)
	viper.SetDefault("server.upload_dir", DefaultUploadDir)

	// OpenAI
	viper.SetDefault("openai.api_key", "")
	viper.SetDefault("openai.base_url", "")
	viper.SetDefault("openai.model", DefaultModel)

	// Store
	viper.SetDefault("store.id", "")
	viper.SetDefault("store.id_file", DefaultStoreIDFile)
	viper.SetDefault("store.name", DefaultStoreName)

	// LLM
	viper.SetDefault("llm.max_results", 0)

	// Ingest
	viper.SetDefault("ingest.max_file_size", DefaultMaxFileSize)
	viper.SetDefault("ingest.ignore", DefaultIgnorePatterns())
}

// bindWellKnownEnv maps the unprefixed variables the dashboard deployment uses.
// The prefixed form still takes precedence when both are set.
func bindWellKnownEnv() {
	_ = viper.BindEnv("openai.api_key", "BARNSBOT_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("openai.base_url", "BARNSBOT_OPENAI_BASE_URL", "OPENAI_BASE_URL")
	_ = viper.BindEnv("store.id", "BARNSBOT_STORE_ID", "VECTOR_STORE_ID")
	_ = viper.BindEnv("server.port", "BARNSBOT_SERVER_PORT", "PORT")
}

// loadDotEnv populates the process environment from path without overriding
// variables that are already set.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("Failed to read env file", "file", path, "error", err)
		}
		return
	}
	log.Debug("Loaded environment from", "file", path)
}

// findRCFile searches for .barnsbotrc.yaml starting from current directory.
func findRCFile() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		rcPath := filepath.Join(dir, ".barnsbotrc.yaml")
		if _, err := os.Stat(rcPath); err == nil {
			return rcPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// ConfigFilePath returns the path of the loaded config file, or empty string if none.
func ConfigFilePath() string {
	return viper.ConfigFileUsed()
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
