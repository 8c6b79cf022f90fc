package config

import (
	"fmt"
	"strings"

	internal "github.com/diskscan/diskscan/dscan"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Scan   ScanConfig   `mapstructure:"scan"`
	Output OutputConfig `mapstructure:"output"`
	Remove RemoveConfig `mapstructure:"remove"`
}

// ScanConfig stores duplicate-scan related configurations.
type ScanConfig struct {
	PrefixBytes        int64    `mapstructure:"prefixBytes"`
	HashAlgorithm      string   `mapstructure:"hashAlgorithm"`
	WorkerCount        int      `mapstructure:"workerCount"`
	IncludeZeroByte    bool     `mapstructure:"includeZeroByte"`
	IncludeSystemFiles bool     `mapstructure:"includeSystemFiles"`
	IgnorePatterns     []string `mapstructure:"ignorePatterns"`
}

// OutputConfig stores result serialization configurations.
type OutputConfig struct {
	Format string `mapstructure:"format"` // "console" or "json"
	Path   string `mapstructure:"path"`   // target file when format is "json"
}

// RemoveConfig stores removal front-end configurations.
type RemoveConfig struct {
	DryRun          bool     `mapstructure:"dryRun"`
	ExcludeSuffixes []string `mapstructure:"excludeSuffixes"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("scan.prefixBytes", internal.DefaultPrefixBytes)
	viper.SetDefault("scan.hashAlgorithm", internal.DefaultHashAlgorithm)
	viper.SetDefault("scan.workerCount", 0) // 0 = derive from CPU count
	viper.SetDefault("scan.includeZeroByte", false)
	viper.SetDefault("scan.includeSystemFiles", false)
	viper.SetDefault("output.format", "console")
	viper.SetDefault("remove.dryRun", true)
	viper.SetDefault("remove.excludeSuffixes", []string{".lrprev"})

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // scan.prefixBytes becomes SCAN_PREFIXBYTES

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
