/*
Package config manages the TOML config for wordstat.

The file lives at [UserConfigDir]/wordstat/config.toml and is created with
defaults the first time it is needed:

	[stats]
	top_words = 50

	[books]
	extensions = [".txt"]
	preload_workers = 4

	[display]
	table_style = "rounded"
	color = true

	[server]
	max_limit = 500

A file that fails to parse is not fatal: every section that can be recovered is
kept and the rest falls back to defaults.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordstat/internal/utils"
	"github.com/charmbracelet/log"
)

// AppName is the config directory name.
const AppName = "wordstat"

// Config holds the entire config structure
type Config struct {
	Stats   StatsConfig   `toml:"stats"`
	Books   BooksConfig   `toml:"books"`
	Display DisplayConfig `toml:"display"`
	Server  ServerConfig  `toml:"server"`
}

// StatsConfig has report options.
type StatsConfig struct {
	TopWords int `toml:"top_words"`
}

// BooksConfig controls which files are accepted as books and how they load.
type BooksConfig struct {
	Extensions     []string `toml:"extensions"`
	PreloadWorkers int      `toml:"preload_workers"`
}

// DisplayConfig holds table rendering options.
type DisplayConfig struct {
	TableStyle string `toml:"table_style"`
	Color      bool   `toml:"color"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Stats: StatsConfig{
			TopWords: 50,
		},
		Books: BooksConfig{
			Extensions:     []string{".txt"},
			PreloadWorkers: 4,
		},
		Display: DisplayConfig{
			TableStyle: "rounded",
			Color:      true,
		},
		Server: ServerConfig{
			MaxLimit: 500,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordstat
// 2. ~/Library/Application Support/wordstat (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordstat/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config.normalize(), nil
}

// tryPartialParse keeps whatever sections of a broken file still parse
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "stats"); ok {
		extractStatsConfig(section, &config.Stats)
	}
	if section, ok := utils.ExtractSection(tempConfig, "books"); ok {
		extractBooksConfig(section, &config.Books)
	}
	if section, ok := utils.ExtractSection(tempConfig, "display"); ok {
		extractDisplayConfig(section, &config.Display)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config.normalize(), nil
}

func extractStatsConfig(data map[string]any, stats *StatsConfig) {
	if val, ok := utils.ExtractInt64(data, "top_words"); ok {
		stats.TopWords = val
	}
}

func extractBooksConfig(data map[string]any, books *BooksConfig) {
	if val, ok := utils.ExtractStrings(data, "extensions"); ok {
		books.Extensions = val
	}
	if val, ok := utils.ExtractInt64(data, "preload_workers"); ok {
		books.PreloadWorkers = val
	}
}

func extractDisplayConfig(data map[string]any, display *DisplayConfig) {
	if val, ok := utils.ExtractString(data, "table_style"); ok {
		display.TableStyle = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		display.Color = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
}

// normalize replaces out of range values with defaults.
func (c *Config) normalize() *Config {
	defaults := DefaultConfig()
	if c.Stats.TopWords < 1 {
		log.Warnf("stats.top_words must be positive, got %d. Using %d", c.Stats.TopWords, defaults.Stats.TopWords)
		c.Stats.TopWords = defaults.Stats.TopWords
	}
	if c.Books.PreloadWorkers < 1 {
		c.Books.PreloadWorkers = defaults.Books.PreloadWorkers
	}
	if c.Server.MaxLimit < 1 {
		c.Server.MaxLimit = defaults.Server.MaxLimit
	}
	if c.Display.TableStyle == "" {
		c.Display.TableStyle = defaults.Display.TableStyle
	}
	return c
}

// RebuildConfigFile force creates a new config.toml at path, or at the
// default location when path is empty.
func RebuildConfigFile(path string) (string, error) {
	if path == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	return path, SaveConfig(DefaultConfig(), path)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
