package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/viper"
)

// Environment names a deployment stage.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvUAT         Environment = "uat"
	EnvProduction  Environment = "production"
)

const (
	defaultHost = "127.0.0.1"
	defaultPort = 3000
)

// Config is the process configuration, read from the environment.
type Config struct {
	Env       Environment
	Host      string
	Port      int
	LogFilter string
}

// Load reads APP_ENV, APP_HOST, APP_PORT and LOG_FILTER. APP_PORT is
// required in production and defaults to 3000 elsewhere.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetDefault("env", string(EnvDevelopment))
	v.SetDefault("host", defaultHost)
	if err := v.BindEnv("log_filter", "LOG_FILTER"); err != nil {
		return nil, err
	}
	v.SetDefault("log_filter", "info")

	cfg := &Config{
		Host:      v.GetString("host"),
		LogFilter: v.GetString("log_filter"),
	}
	switch env := Environment(v.GetString("env")); env {
	case EnvDevelopment, EnvUAT, EnvProduction:
		cfg.Env = env
	default:
		return nil, fmt.Errorf("APP_ENV %q is not one of development, uat, production", env)
	}

	portStr := v.GetString("port")
	if portStr == "" {
		if cfg.Env == EnvProduction {
			return nil, fmt.Errorf("APP_PORT is required when APP_ENV=production")
		}
		cfg.Port = defaultPort
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("APP_PORT %q is not a valid port", portStr)
		}
		cfg.Port = port
	}
	return cfg, nil
}

// Addr is the host:port the server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
