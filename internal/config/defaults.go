package config

import (
	"os"
	"path/filepath"
)

// Default configuration values
const (
	// Server defaults
	DefaultPort      = 3000
	DefaultBodyLimit = "64M"
	DefaultMaxFiles  = 100
	DefaultUploadDir = "uploads"

	// OpenAI defaults
	DefaultModel = "gpt-4o-mini"

	// Vector store defaults
	DefaultStoreIDFile = ".vector_store_id"
	DefaultStoreName   = "company-knowledge"

	// Ingest defaults
	DefaultMaxFileSize = 32 << 20 // 32MB
)

// DefaultIgnorePatterns returns the patterns skipped when ingesting a directory.
func DefaultIgnorePatterns() []string {
	return []string{
		// Version control
		".git/",
		".svn/",
		".hg/",

		// Dependencies and build output
		"node_modules/",
		"vendor/",
		".venv/",
		"dist/",
		"build/",

		// Editor noise
		".idea/",
		".vscode/",
		"*.swp",
		"*~",

		// Lock files that happen to be json
		"package-lock.json",
		"composer.lock",

		// Misc
		".DS_Store",
		".env",
		".env.*",
		DefaultStoreIDFile,
	}
}

// DefaultConfigDir returns the default configuration directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/barnsbot"
	}
	return filepath.Join(home, ".config", "barnsbot")
}
