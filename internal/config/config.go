package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const defaultMaxRangeBytes = 4 << 20 // 4 MiB на один range-ответ

type Config struct {
	ListenAddr    string `yaml:"listen_addr" json:"listen_addr"`
	DataDir       string `yaml:"data_dir" json:"data_dir"`
	PublicBaseURL string `yaml:"public_base_url" json:"public_base_url"`
	MaxRangeBytes int64  `yaml:"max_range_bytes" json:"max_range_bytes"`
	GCTTLHours    int    `yaml:"gc_ttl_hours" json:"gc_ttl_hours"`
	GCIntervalMin int    `yaml:"gc_interval_min" json:"gc_interval_min"`
	ClassifierCmd string `yaml:"classifier_cmd" json:"classifier_cmd"`
}

// Default возвращает конфигурацию со значениями по умолчанию; GC выключен.
func Default() *Config {
	return &Config{
		ListenAddr:    ":8080",
		DataDir:       "/data",
		MaxRangeBytes: defaultMaxRangeBytes,
		ClassifierCmd: "file",
	}
}

// Load читает YAML-конфигурацию (если файл есть), применяет ENV-переопределения
// и возвращает актуальную структуру.
func Load() (*Config, error) {
	c := Default()

	path := getenv("CONFIG_PATH", "./config.yaml")
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		// Нет файла — живём на дефолтах и ENV.
	default:
		return nil, err
	}

	// ENV override
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		c.PublicBaseURL = v
	}
	if v := envInt64("MAX_RANGE_BYTES"); v > 0 {
		c.MaxRangeBytes = v
	}
	if v := envInt64("GC_TTL_HOURS"); v > 0 {
		c.GCTTLHours = int(v)
	}
	if v := envInt64("GC_INTERVAL_MIN"); v > 0 {
		c.GCIntervalMin = int(v)
	}
	if v := os.Getenv("CLASSIFIER_CMD"); v != "" {
		c.ClassifierCmd = v
	}

	if c.MaxRangeBytes <= 0 {
		c.MaxRangeBytes = defaultMaxRangeBytes
	}

	return c, nil
}

func envInt64(key string) int64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
