package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port           int
		GinMode        string
		AllowedOrigins []string
	}
	Site struct {
		BaseURL     string
		ContentFile string
	}
	Log struct {
		Level string
		File  string
	}
}

// LoadConfig reads config.yaml from "." or "./config", or the file at path
// when one is given. Environment variables prefixed with SITE_ override file
// values, e.g. SITE_SITE_BASEURL or SITE_SERVER_PORT. A missing config file is
// only an error when path is explicit.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("server.allowedorigins", []string{"*"})
	v.SetDefault("site.baseurl", "http://localhost:8080")
	v.SetDefault("site.contentfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix("site")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that viper cannot type check.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.ginmode %q must be debug, release or test", c.Server.GinMode)
	}
	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("site.baseurl %q must be an absolute URL", c.Site.BaseURL)
		}
	}
	return nil
}

// BaseURL returns the site base URL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.Site.BaseURL, "/")
}
