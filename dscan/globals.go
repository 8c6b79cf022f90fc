package internal

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultConfigPath is the default path to the config file
	DefaultAppName    = "diskscan"
	DefaultConfigPath = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultConfigFile = filepath.Join(DefaultConfigPath, "config.yaml")

	// Default scan settings
	DefaultPrefixBytes   = int64(64 * 1024)
	DefaultHashAlgorithm = "md5"
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			// Last resort - use tmp directory
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
