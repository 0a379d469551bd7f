// Package config contains utilities for loading configs
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/go-playground/validator/v10"
)

const (
	configFilePath = "/data/savory.yaml"
	configPathEnv  = "SAVORY_CONFIG"
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

const (
	defaultListenAddr      = ":8080"
	defaultBackendTimeout  = 15 * time.Second
	defaultCacheSize       = 512
	defaultCacheTTL        = 30 * time.Second
	defaultSearchDebounce  = 500 * time.Millisecond
	defaultLogLevel        = "info"
	defaultStoreDriver     = StoreMemory
	defaultBackendRetryMax = 0
)

type Backend struct {
	URL      string        `yaml:"url" validate:"required,url"`
	ImageURL string        `yaml:"image_url" validate:"omitempty,url"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
	RetryMax int           `yaml:"retry_max" validate:"gte=0,lte=10"`
}

type Store struct {
	Driver string `yaml:"driver" validate:"oneof=memory sqlite postgres redis"`
	DSN    string `yaml:"dsn" validate:"required_unless=Driver memory"`
}

type Cache struct {
	Size int           `yaml:"size" validate:"gt=0"`
	TTL  time.Duration `yaml:"ttl" validate:"gte=0"`
}

type Search struct {
	Debounce time.Duration `yaml:"debounce" validate:"gt=0"`
}

type Guard struct {
	// CheckExpiry treats a present but expired jwt cookie as absent.
	CheckExpiry bool `yaml:"check_expiry"`
}

type Config struct {
	Env        string  `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
	ListenAddr string  `yaml:"listen_addr" validate:"required"`
	LogLevel   string  `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Backend    Backend `yaml:"backend"`
	Store      Store   `yaml:"store"`
	Cache      Cache   `yaml:"cache"`
	Search     Search  `yaml:"search"`
	Guard      Guard   `yaml:"guard"`
}

// IsProd reports whether the app runs in production mode.
func (c Config) IsProd() bool {
	return c.Env == EnvProd
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		// "Config.Backend.URL" -> "Backend.URL"
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required", "required_unless":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", field, e.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func validate(conf Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(conf); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func setDefaults(conf *Config) {
	if conf.Env == "" {
		conf.Env = EnvDev
	}
	if conf.ListenAddr == "" {
		conf.ListenAddr = defaultListenAddr
	}
	if conf.LogLevel == "" {
		conf.LogLevel = defaultLogLevel
	}
	if conf.Backend.Timeout == 0 {
		conf.Backend.Timeout = defaultBackendTimeout
	}
	conf.Backend.URL = strings.TrimRight(conf.Backend.URL, "/")
	conf.Backend.ImageURL = strings.TrimRight(conf.Backend.ImageURL, "/")
	if conf.Store.Driver == "" {
		conf.Store.Driver = defaultStoreDriver
	}
	if conf.Cache.Size == 0 {
		conf.Cache.Size = defaultCacheSize
	}
	if conf.Search.Debounce == 0 {
		conf.Search.Debounce = defaultSearchDebounce
	}
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		Env:        loadWithDefault("ENV", EnvDev),
		ListenAddr: loadWithDefault("LISTEN_ADDR", defaultListenAddr),
		LogLevel:   loadWithDefault("LOG_LEVEL", defaultLogLevel),
		Backend: Backend{
			URL:      loadWithDefault("BACKEND_URL", ""),
			ImageURL: loadWithDefault("BACKEND_IMAGE_URL", ""),
		},
		Store: Store{
			Driver: loadWithDefault("STORE_DRIVER", defaultStoreDriver),
			DSN:    loadWithDefault("STORE_DSN", ""),
		},
	}

	// Backend
	timeout := loadWithDefault("BACKEND_TIMEOUT", defaultBackendTimeout.String())
	if d, err := time.ParseDuration(timeout); err != nil {
		return conf, fmt.Errorf("invalid BACKEND_TIMEOUT (%q): %w", timeout, err)
	} else {
		conf.Backend.Timeout = d
	}
	retryMax := loadWithDefault("BACKEND_RETRY_MAX", strconv.Itoa(defaultBackendRetryMax))
	if n, err := strconv.Atoi(retryMax); err != nil {
		return conf, fmt.Errorf("invalid BACKEND_RETRY_MAX (%q): %w", retryMax, err)
	} else {
		conf.Backend.RetryMax = n
	}

	// Cache
	cacheSize := loadWithDefault("CACHE_SIZE", strconv.Itoa(defaultCacheSize))
	if n, err := strconv.Atoi(cacheSize); err != nil {
		return conf, fmt.Errorf("invalid CACHE_SIZE (%q): %w", cacheSize, err)
	} else {
		conf.Cache.Size = n
	}
	cacheTTL := loadWithDefault("CACHE_TTL", defaultCacheTTL.String())
	if d, err := time.ParseDuration(cacheTTL); err != nil {
		return conf, fmt.Errorf("invalid CACHE_TTL (%q): %w", cacheTTL, err)
	} else {
		conf.Cache.TTL = d
	}

	// Search
	debounce := loadWithDefault("SEARCH_DEBOUNCE", defaultSearchDebounce.String())
	if d, err := time.ParseDuration(debounce); err != nil {
		return conf, fmt.Errorf("invalid SEARCH_DEBOUNCE (%q): %w", debounce, err)
	} else {
		conf.Search.Debounce = d
	}

	// Guard
	checkExpiry := loadWithDefault("GUARD_CHECK_EXPIRY", "false")
	if b, err := strconv.ParseBool(checkExpiry); err != nil {
		return conf, fmt.Errorf("invalid GUARD_CHECK_EXPIRY (%q): %w", checkExpiry, err)
	} else {
		conf.Guard.CheckExpiry = b
	}

	setDefaults(&conf)
	if err := validate(conf); err != nil {
		return conf, err
	}

	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	// Read file
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	// Unmarshal into config
	config := Config{
		Cache: Cache{TTL: defaultCacheTTL},
	}
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	setDefaults(&config)
	if err := validate(config); err != nil {
		return Config{}, err
	}

	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

// LoadConfig loads a .env file when present, then reads the YAML config file
// if it exists and falls back to environment variables otherwise.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	path := loadWithDefault(configPathEnv, configFilePath)
	if configFileExists(path) {
		return loadConfigFromFile(path)
	}

	return loadConfigFromEnv()
}
