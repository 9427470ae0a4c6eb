package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

// Pattern is the net/http ServeMux pattern for the route.
func (r Route) Pattern() string {
	if r.Method == "" {
		return r.Url
	}
	return r.Method + " " + r.Url
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

// Persistence applies to the memory storage driver only. SaveInterval is in seconds.
type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required|in:memory,sqlite"`
	DSN    string `yaml:"dsn"`
}

// AuthConfig signs bearer tokens. TokenTTL is in seconds.
type AuthConfig struct {
	Secret     string        `yaml:"secret" validate:"required|minLen:16"`
	TokenTTL   time.Duration `yaml:"tokenTTL" validate:"required|min:1"`
	BcryptCost int           `yaml:"bcryptCost"`
}

// CacheConfig sizes the response cache in megabytes. TTL is in seconds.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Storage     StorageConfig `yaml:"storage"`
	Auth        AuthConfig    `yaml:"auth"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
