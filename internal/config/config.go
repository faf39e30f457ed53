package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

type CartConfig struct {
	TTL string `yaml:"ttl"`
}

type DeviceConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	TTL        string `yaml:"ttl"`
	CookieName string `yaml:"cookie_name"`
}

type PaymentConfig struct {
	RedirectBase string `yaml:"redirect_base"`
	PollInterval string `yaml:"poll_interval"`
	PollAttempts int    `yaml:"poll_attempts"`
}

type CasbinConfig struct {
	ModelPath  string `yaml:"model_path"`
	PolicyPath string `yaml:"policy_path"`
}

type ConfigFile struct {
	App     AppConfig     `yaml:"app"`
	Backend BackendConfig `yaml:"backend"`
	Redis   RedisConfig   `yaml:"redis"`
	Session SessionConfig `yaml:"session"`
	Cart    CartConfig    `yaml:"cart"`
	Device  DeviceConfig  `yaml:"device"`
	Payment PaymentConfig `yaml:"payment"`
	Casbin  CasbinConfig  `yaml:"casbin"`
}

type Config struct {
	Port             string
	GinMode          string
	BackendBaseURL   string
	BackendTimeout   time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	SessionTTL       time.Duration
	CartTTL          time.Duration
	DeviceSecret     string
	DeviceIssuer     string
	DeviceTTL        time.Duration
	DeviceCookieName string
	PaymentRedirect  string
	PollInterval     time.Duration
	PollAttempts     int
	CasbinModelPath  string
	CasbinPolicyPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	timeout, err := time.ParseDuration(configFile.Backend.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid backend timeout: %w", err)
	}

	sessTTL, err := time.ParseDuration(configFile.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	cartTTL, err := time.ParseDuration(configFile.Cart.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cart TTL: %w", err)
	}

	devTTL, err := time.ParseDuration(configFile.Device.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid device token TTL: %w", err)
	}

	pollInterval, err := time.ParseDuration(configFile.Payment.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid payment poll interval: %w", err)
	}

	return &Config{
		Port:             fmt.Sprintf("%d", configFile.App.Port),
		GinMode:          configFile.App.GinMode,
		BackendBaseURL:   env("BACKEND_BASE_URL", configFile.Backend.BaseURL),
		BackendTimeout:   timeout,
		RedisAddr:        env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:    env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:          configFile.Redis.DB,
		SessionTTL:       sessTTL,
		CartTTL:          cartTTL,
		DeviceSecret:     env("DEVICE_SECRET", configFile.Device.Secret),
		DeviceIssuer:     configFile.Device.Issuer,
		DeviceTTL:        devTTL,
		DeviceCookieName: configFile.Device.CookieName,
		PaymentRedirect:  configFile.Payment.RedirectBase,
		PollInterval:     pollInterval,
		PollAttempts:     configFile.Payment.PollAttempts,
		CasbinModelPath:  configFile.Casbin.ModelPath,
		CasbinPolicyPath: configFile.Casbin.PolicyPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
