package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds settings that are safe to log or expose to operators.
// TTL values are in seconds.
type Public struct {
	HttpPort            int      `yaml:"http_port"`
	LogLevel            string   `yaml:"log_level"`
	LogJSON             bool     `yaml:"log_json"`
	FrontendURL         string   `yaml:"frontend_url"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	SecureCookies       bool     `yaml:"secure_cookies"`
	AccessTokenTTLSec   int      `yaml:"access_token_ttl"`
	RefreshTokenTTLSec  int      `yaml:"refresh_token_ttl"`
	VerificationTTLSec  int      `yaml:"verification_token_ttl"`
	PasswordResetTTLSec int      `yaml:"password_reset_token_ttl"`
	ShutdownTimeoutSec  int      `yaml:"shutdown_timeout"`
}

// Private holds credentials. Keep private.yaml out of version control.
type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Public.AccessTokenTTLSec) * time.Second
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.Public.RefreshTokenTTLSec) * time.Second
}

func (c *Config) VerificationTTL() time.Duration {
	return time.Duration(c.Public.VerificationTTLSec) * time.Second
}

func (c *Config) PasswordResetTTL() time.Duration {
	return time.Duration(c.Public.PasswordResetTTLSec) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	if c.Public.ShutdownTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Public.ShutdownTimeoutSec) * time.Second
}

func (c *Config) validate() error {
	if c.Private.JwtKey == "" {
		return fmt.Errorf("jwt_key is required")
	}
	if c.Public.AccessTokenTTLSec <= 0 {
		return fmt.Errorf("access_token_ttl must be positive")
	}
	if c.Public.RefreshTokenTTLSec <= 0 {
		return fmt.Errorf("refresh_token_ttl must be positive")
	}
	if c.Public.VerificationTTLSec <= 0 {
		return fmt.Errorf("verification_token_ttl must be positive")
	}
	if c.Public.PasswordResetTTLSec <= 0 {
		return fmt.Errorf("password_reset_token_ttl must be positive")
	}
	if c.Private.Pg.Host == "" {
		return fmt.Errorf("pg.host is required")
	}
	return nil
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	if err := cfg.validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}
