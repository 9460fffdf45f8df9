package config

import "time"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the full runtime configuration of the clickpath binary.
type Config struct {
	API        APIConfig      `yaml:"api" koanf:"api"`
	Features   FeaturesConfig `yaml:"features" koanf:"features"`
	Tour       TourConfig     `yaml:"tour" koanf:"tour"`
	Storage    StorageConfig  `yaml:"storage" koanf:"storage"`
	BundledDir string         `yaml:"bundled_dir" koanf:"bundled_dir"`
	Server     ServerConfig   `yaml:"server" koanf:"server"`
	Browser    BrowserConfig  `yaml:"browser" koanf:"browser"`
	Log        LogConfig      `yaml:"log" koanf:"log"`
	User       UserConfig     `yaml:"user" koanf:"user"`
}

// APIConfig points at the host application serving tours and colors.
// An empty BaseURL disables the remote source.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" koanf:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout" validate:"gte=0"`
}

// FeaturesConfig holds the local defaults of the feature flags. The host
// may override them through its remote config.
type FeaturesConfig struct {
	EnableAutoStart  bool `yaml:"enable_auto_start" koanf:"enable_auto_start"`
	EnableHelpButton bool `yaml:"enable_help_button" koanf:"enable_help_button"`
}

// TourConfig controls catalog caching and progress reporting.
type TourConfig struct {
	CacheEnabled bool `yaml:"cache_enabled" koanf:"cache_enabled"`
	ProgressSync bool `yaml:"progress_sync" koanf:"progress_sync"`
}

// StorageConfig selects and configures the key-value store.
type StorageConfig struct {
	Backend       string        `yaml:"backend" koanf:"backend" validate:"oneof=memory file redis sqlite"`
	Path          string        `yaml:"path" koanf:"path" validate:"required_if=Backend file,required_if=Backend sqlite"`
	Redis         RedisConfig   `yaml:"redis" koanf:"redis"`
	Prefix        string        `yaml:"prefix" koanf:"prefix"`
	TTL           time.Duration `yaml:"ttl" koanf:"ttl" validate:"gte=0"`
	EncryptionKey string        `yaml:"encryption_key" koanf:"encryption_key" validate:"omitempty,base64"`
	Redact        []string      `yaml:"redact" koanf:"redact"`
}

// RedisConfig is used when the backend is redis.
type RedisConfig struct {
	Addr     string `yaml:"addr" koanf:"addr" validate:"omitempty,hostname_port"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db" validate:"gte=0"`
}

// ServerConfig configures the HTTP command surface.
type ServerConfig struct {
	Addr           string   `yaml:"addr" koanf:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// BrowserConfig drives the optional Playwright session.
type BrowserConfig struct {
	Enabled    bool   `yaml:"enabled" koanf:"enabled"`
	Headless   bool   `yaml:"headless" koanf:"headless"`
	Install    bool   `yaml:"install" koanf:"install"`
	StartURL   string `yaml:"start_url" koanf:"start_url" validate:"omitempty,url"`
	Width      int    `yaml:"width" koanf:"width" validate:"gt=0"`
	Height     int    `yaml:"height" koanf:"height" validate:"gt=0"`
	HelpButton bool   `yaml:"help_button" koanf:"help_button"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level" validate:"oneof=debug info warn error"`
}

// UserConfig describes the local user, used for role-gated auto start.
type UserConfig struct {
	Name  string   `yaml:"name" koanf:"name"`
	Roles []string `yaml:"roles" koanf:"roles"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Timeout: 10 * time.Second,
		},
		Features: FeaturesConfig{
			EnableAutoStart:  true,
			EnableHelpButton: true,
		},
		Tour: TourConfig{
			CacheEnabled: true,
			ProgressSync: true,
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			Prefix:  "clickpath:",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8765",
			AllowedOrigins: []string{"*"},
		},
		Browser: BrowserConfig{
			Headless:   true,
			Width:      1280,
			Height:     800,
			HelpButton: true,
		},
		Log: LogConfig{Level: "info"},
	}
}
