package config // package config loads layered application configuration

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration. Values are resolved in
// layers, lowest to highest precedence: compiled defaults, the YAML
// config file (~/.gtm/config.yaml), environment variables (GTM_* and
// the DB_*/AUTH_* families below). CLI flags are merged on top by the
// caller after Load returns.
type Config struct {
	Env  string // application environment ("dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	// Managed team. Only games hosted by this team generate tickets.
	TeamID   int64  // MLB Stats API team id (137 = SF Giants)
	TeamName string // team display name

	// External identity provider (OIDC / Auth0-style).
	AuthIssuer   string // expected "iss" claim, e.g. https://tenant.auth0.com/
	AuthAudience string // expected "aud" claim
	JWKSURL      string // JWKS endpoint for RS256 public keys

	AMQPURL string // RabbitMQ URL for allocation events (empty disables publishing)
}

// fileConfig is the YAML config file layout. All fields are optional
// and layer on top of the compiled defaults.
type fileConfig struct {
	Env          string `yaml:"env"`
	Port         string `yaml:"port"`
	DBUser       string `yaml:"db_user"`
	DBPass       string `yaml:"db_pass"`
	DBHost       string `yaml:"db_host"`
	DBPort       string `yaml:"db_port"`
	DBName       string `yaml:"db_name"`
	TeamID       int64  `yaml:"team_id"`
	TeamName     string `yaml:"team_name"`
	AuthIssuer   string `yaml:"auth_issuer"`
	AuthAudience string `yaml:"auth_audience"`
	JWKSURL      string `yaml:"jwks_url"`
	AMQPURL      string `yaml:"amqp_url"`
}

// FilePath returns the config file location, ~/.gtm/config.yaml.
func FilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".gtm", "config.yaml")
}

// Load resolves configuration from defaults, the config file and the
// environment, in that order. It never fails: a missing or malformed
// config file is skipped with a warning and the remaining layers still
// apply.
func Load() Config {
	cfg := defaults()
	applyFile(&cfg, FilePath())
	applyEnv(&cfg)
	return cfg
}

func defaults() Config {
	return Config{
		Env:          "dev",
		Port:         "3000",
		DBUser:       "gtm",
		DBHost:       "localhost",
		DBPort:       "3306",
		DBName:       "gtm",
		TeamID:       137,
		TeamName:     "San Francisco Giants",
		AuthIssuer:   "https://momentlabs.auth0.com/",
		AuthAudience: "https://gtm-api.momentlabs.io",
		JWKSURL:      "https://momentlabs.auth0.com/.well-known/jwks.json",
	}
}

func applyFile(cfg *Config, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return // no config file is fine
	}
	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		log.Printf("config: ignoring malformed %s: %v", path, err)
		return
	}
	if f.Env != "" {
		cfg.Env = f.Env
	}
	if f.Port != "" {
		cfg.Port = f.Port
	}
	if f.DBUser != "" {
		cfg.DBUser = f.DBUser
	}
	if f.DBPass != "" {
		cfg.DBPass = f.DBPass
	}
	if f.DBHost != "" {
		cfg.DBHost = f.DBHost
	}
	if f.DBPort != "" {
		cfg.DBPort = f.DBPort
	}
	if f.DBName != "" {
		cfg.DBName = f.DBName
	}
	if f.TeamID != 0 {
		cfg.TeamID = f.TeamID
	}
	if f.TeamName != "" {
		cfg.TeamName = f.TeamName
	}
	if f.AuthIssuer != "" {
		cfg.AuthIssuer = f.AuthIssuer
	}
	if f.AuthAudience != "" {
		cfg.AuthAudience = f.AuthAudience
	}
	if f.JWKSURL != "" {
		cfg.JWKSURL = f.JWKSURL
	}
	if f.AMQPURL != "" {
		cfg.AMQPURL = f.AMQPURL
	}
}

func applyEnv(cfg *Config) {
	setStr := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setStr(&cfg.Env, "GTM_ENV", "APP_ENV")
	setStr(&cfg.Port, "GTM_PORT", "APP_PORT")
	setStr(&cfg.DBUser, "DB_USER")
	setStr(&cfg.DBPass, "DB_PASS")
	setStr(&cfg.DBHost, "DB_HOST")
	setStr(&cfg.DBPort, "DB_PORT")
	setStr(&cfg.DBName, "DB_NAME")
	setStr(&cfg.TeamName, "GTM_TEAM_NAME")
	setStr(&cfg.AuthIssuer, "AUTH_ISSUER")
	setStr(&cfg.AuthAudience, "AUTH_AUDIENCE")
	setStr(&cfg.JWKSURL, "AUTH_JWKS_URL")
	setStr(&cfg.AMQPURL, "RABBITMQ_URL", "AMQP_URL")
	if v := os.Getenv("GTM_TEAM_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TeamID = n
		}
	}
}

// Helpers reused by ratelimit.go and cache.go.

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
