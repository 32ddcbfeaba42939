package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

var ErrConfig = errors.New("invalid configuration")

type Config struct {
	Env      string         `yaml:"env"`      // Env is the current environment: local, development, production.
	Postgres PostgresConfig `yaml:"postgres"` // Postgres holds the database configuration
	Backend  BackendConfig  `yaml:"backend"`  // Backend holds the CRM REST backend configuration
	Redis    RedisConfig    `yaml:"redis"`    // Redis holds the task cache configuration
	HTTP     HTTPConfig     `yaml:"http"`     // HTTP holds the board API listener configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

// BackendConfig struct holds the configuration details for the CRM backend.
type BackendConfig struct {
	BaseURL    string        `yaml:"url"`        // BaseURL is the url of the backend in format `https://crm.example.com/`
	LoginURL   string        `yaml:"login_url"`  // LoginURL is the url used to obtain a session token
	Username   string        `yaml:"username"`   // Username is the service account used to login
	Password   string        `yaml:"password"`   // Password is the service account password
	Interval   time.Duration `yaml:"interval"`   // Interval is the time between two board syncs.
	Timeout    time.Duration `yaml:"timeout"`    // Timeout bounds a single backend request.
	RateLimit  float64       `yaml:"rate_limit"` // RateLimit is the number of backend requests per second, 0 disables it.
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// RedisConfig struct holds the configuration of the fetched tasks cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

// MustLoad loads the configuration from the YAML file named by CONFIG_PATH and panics on failure.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("config path is empty")
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads and validates the configuration file at configPath.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	vpr := viper.New()
	vpr.SetConfigFile(configPath)

	vpr.SetDefault("env", "local")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("backend.interval", 5*time.Minute)
	vpr.SetDefault("backend.timeout", 15*time.Second)
	vpr.SetDefault("backend.rate_limit", 10.0)
	vpr.SetDefault("backend.retry_delay", 5*time.Second)
	vpr.SetDefault("redis.ttl", time.Minute)
	vpr.SetDefault("http.port", 8080)

	if err := vpr.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		Backend: BackendConfig{
			BaseURL:    vpr.GetString("backend.url"),
			LoginURL:   vpr.GetString("backend.login_url"),
			Username:   vpr.GetString("backend.username"),
			Password:   vpr.GetString("backend.password"),
			Interval:   vpr.GetDuration("backend.interval"),
			Timeout:    vpr.GetDuration("backend.timeout"),
			RateLimit:  vpr.GetFloat64("backend.rate_limit"),
			RetryDelay: vpr.GetDuration("backend.retry_delay"),
		},
		Redis: RedisConfig{
			Addr:     vpr.GetString("redis.addr"),
			Password: vpr.GetString("redis.password"),
			DB:       vpr.GetInt("redis.db"),
			TTL:      vpr.GetDuration("redis.ttl"),
		},
		HTTP: HTTPConfig{
			Port: vpr.GetInt("http.port"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Backend.BaseURL == "":
		return fmt.Errorf("%w: backend.url is required", ErrConfig)
	case c.Backend.LoginURL == "":
		return fmt.Errorf("%w: backend.login_url is required", ErrConfig)
	case c.Backend.Interval <= 0:
		return fmt.Errorf("%w: backend.interval must be positive", ErrConfig)
	case c.Backend.RateLimit < 0:
		return fmt.Errorf("%w: backend.rate_limit must not be negative", ErrConfig)
	case c.HTTP.Port <= 0 || c.HTTP.Port > 65535:
		return fmt.Errorf("%w: http.port %d is out of range", ErrConfig, c.HTTP.Port)
	}
	return nil
}
