package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

type SolverConfig struct {
	// Tolerance is passed through to the simplex; zero keeps the
	// library default.
	Tolerance float64 `yaml:"tolerance"`
}

type MetricsConfig struct {
	Pushgateway string `yaml:"pushgateway"`
	Job         string `yaml:"job"`
}

type Config struct {
	DataDir      string        `yaml:"dataDir"`
	OutDir       string        `yaml:"outDir"`
	TopN         int           `yaml:"topN"`
	BaselineCost float64       `yaml:"baselineCost"`
	DatabaseURL  string        `yaml:"databaseUrl"`
	RedisAddr    string        `yaml:"redisAddr"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
	Solver       SolverConfig  `yaml:"solver"`
	Metrics      MetricsConfig `yaml:"metrics"`
}

func Default() *Config {
	return &Config{
		DataDir: "data",
		OutDir:  "outputs",
		TopN:    10,
		Metrics: MetricsConfig{Job: "flowplan"},
	}
}

// Load builds the config from defaults, an optional YAML file, and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	cfg.DataDir = getEnv("FLOWPLAN_DATA_DIR", cfg.DataDir)
	cfg.OutDir = getEnv("FLOWPLAN_OUT_DIR", cfg.OutDir)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.Metrics.Pushgateway = getEnv("PUSHGATEWAY_URL", cfg.Metrics.Pushgateway)
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
