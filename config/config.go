package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort            = "8080"
	defaultSearchThreshold = 0.4
	defaultTitleWeight     = 0.6
	defaultIDWeight        = 0.5
	defaultBodyWeight      = 0.2
	defaultReferencePolicy = "leftmost-longest"
	defaultIndexWorkers    = 4
	defaultLogLevel        = "info"
)

type Config struct {
	config *viper.Viper
}

// Category is one entry of the externally defined category vocabulary.
type Category struct {
	ID    string `mapstructure:"id" json:"id"`
	Label string `mapstructure:"label" json:"label"`
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	setDefaults(viperConfig)
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("search.threshold", defaultSearchThreshold)
	v.SetDefault("search.weights.title", defaultTitleWeight)
	v.SetDefault("search.weights.id", defaultIDWeight)
	v.SetDefault("search.weights.body", defaultBodyWeight)
	v.SetDefault("reference.numeric_matcher", true)
	v.SetDefault("reference.policy", defaultReferencePolicy)
	v.SetDefault("index.workers", defaultIndexWorkers)
	v.SetDefault("log.level", defaultLogLevel)
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}

	return port
}

func (c *Config) GetCorpusPath() string {
	corpusPath := c.config.GetString("CORPUS_PATH")
	if len(corpusPath) == 0 {
		corpusPath = c.config.GetString("corpus.path")
	}

	return resolvePath(corpusPath)
}

func (c *Config) GetKVDBPath() string {
	kvdbPath := c.config.GetString("KVDB_PATH")
	if len(kvdbPath) == 0 {
		kvdbPath = c.config.GetString("database.kvdb_path")
	}

	return resolvePath(kvdbPath)
}

func (c *Config) GetLogLevel() string {
	level := c.config.GetString("LOG_LEVEL")
	if len(level) == 0 {
		level = c.config.GetString("log.level")
	}

	return level
}

func (c *Config) GetSearchThreshold() float64 {
	return c.config.GetFloat64("search.threshold")
}

// GetSearchWeights returns the title, id and body field weights, in that order.
func (c *Config) GetSearchWeights() (float64, float64, float64) {
	return c.config.GetFloat64("search.weights.title"),
		c.config.GetFloat64("search.weights.id"),
		c.config.GetFloat64("search.weights.body")
}

func (c *Config) GetNumericMatcherEnabled() bool {
	return c.config.GetBool("reference.numeric_matcher")
}

func (c *Config) GetReferencePolicy() string {
	return c.config.GetString("reference.policy")
}

func (c *Config) GetIndexWorkers() int {
	workers := c.config.GetInt("index.workers")
	if workers <= 0 {
		workers = defaultIndexWorkers
	}
	return workers
}

func (c *Config) GetCategories() ([]Category, error) {
	var categories []Category
	if err := c.config.UnmarshalKey("categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to read category vocabulary: %w", err)
	}
	return categories, nil
}

// resolvePath makes relative paths relative to the project root, so that tests running inside
// package directories find the same files as the binary.
func resolvePath(path string) string {
	if len(path) == 0 || filepath.IsAbs(path) {
		return path
	}
	projectRoot, err := getProjectRoot()
	if err != nil {
		return path
	}
	return filepath.Join(projectRoot, path)
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
