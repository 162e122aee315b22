package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/convoyd"
	ConfigFileName    = "convoyd.yml"
)

// Environment variables that are never read from the config file
const (
	EnvJWTSecret   = "CONVOYD_JWT_SECRET"
	EnvConfigPath  = "CONVOYD_CONFIG_PATH"
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogLevel    = "CONVOYD_LOG_LEVEL"
)

// Config holds all convoyd configuration settings
type Config struct {
	// TokenTTL is the lifetime of issued credentials in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// SuperRole is the role name that bypasses permission checks
	SuperRole string `yaml:"super_role" json:"super_role"`

	// DefaultRole is assigned to every new signup
	DefaultRole string `yaml:"default_role" json:"default_role"`

	// ProfileCacheTTL is how long a loaded profile is cached in seconds.
	// Zero disables the cache. Changes made outside the API, such as a
	// deactivation in SQL, reach a cached subject only after this long.
	ProfileCacheTTL int `yaml:"profile_cache_ttl" json:"profile_cache_ttl"`

	// RedisAddr is the Redis address used by the profile cache
	RedisAddr string `yaml:"redis_addr" json:"redis_addr"`

	// SigninRateLimit is the number of signup and signin requests allowed
	// per client IP per minute
	SigninRateLimit int `yaml:"signin_rate_limit" json:"signin_rate_limit"`

	// CORSAllowedOrigins is the list of origins allowed by CORS
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// SSLRedirect redirects plain HTTP requests to HTTPS
	SSLRedirect bool `yaml:"ssl_redirect" json:"ssl_redirect"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors Config with pointers so that explicit zero values in
// the file are applied.
type fileConfig struct {
	TokenTTL           *int     `yaml:"token_ttl"`
	SuperRole          *string  `yaml:"super_role"`
	DefaultRole        *string  `yaml:"default_role"`
	ProfileCacheTTL    *int     `yaml:"profile_cache_ttl"`
	RedisAddr          *string  `yaml:"redis_addr"`
	SigninRateLimit    *int     `yaml:"signin_rate_limit"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	SSLRedirect        *bool    `yaml:"ssl_redirect"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		TokenTTL:           3600,
		SuperRole:          "SUPER_ADMIN",
		DefaultRole:        "GUEST",
		ProfileCacheTTL:    0,
		RedisAddr:          "",
		SigninRateLimit:    10,
		CORSAllowedOrigins: []string{"*"},
		SSLRedirect:        false,
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"token_ttl", "super_role", "default_role", "profile_cache_ttl",
		"redis_addr", "signin_rate_limit", "cors_allowed_origins", "ssl_redirect",
	}
}

func (c *Config) applyFileConfig(file *fileConfig) {
	if file.TokenTTL != nil {
		c.TokenTTL = *file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.SuperRole != nil {
		c.SuperRole = *file.SuperRole
		c.sources["super_role"] = "file"
	}
	if file.DefaultRole != nil {
		c.DefaultRole = *file.DefaultRole
		c.sources["default_role"] = "file"
	}
	if file.ProfileCacheTTL != nil {
		c.ProfileCacheTTL = *file.ProfileCacheTTL
		c.sources["profile_cache_ttl"] = "file"
	}
	if file.RedisAddr != nil {
		c.RedisAddr = *file.RedisAddr
		c.sources["redis_addr"] = "file"
	}
	if file.SigninRateLimit != nil {
		c.SigninRateLimit = *file.SigninRateLimit
		c.sources["signin_rate_limit"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
	if file.SSLRedirect != nil {
		c.SSLRedirect = *file.SSLRedirect
		c.sources["ssl_redirect"] = "file"
	}
}

func (c *Config) applyEnvConfig() error {
	ints := []struct {
		env  string
		name string
		dst  *int
	}{
		{"CONVOYD_TOKEN_TTL", "token_ttl", &c.TokenTTL},
		{"CONVOYD_PROFILE_CACHE_TTL", "profile_cache_ttl", &c.ProfileCacheTTL},
		{"CONVOYD_SIGNIN_RATE_LIMIT", "signin_rate_limit", &c.SigninRateLimit},
	}
	for _, v := range ints {
		val := os.Getenv(v.env)
		if val == "" {
			continue
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", v.env, val, err)
		}
		*v.dst = i
		c.sources[v.name] = "environment"
	}

	if val := os.Getenv("CONVOYD_SUPER_ROLE"); val != "" {
		c.SuperRole = val
		c.sources["super_role"] = "environment"
	}
	if val := os.Getenv("CONVOYD_DEFAULT_ROLE"); val != "" {
		c.DefaultRole = val
		c.sources["default_role"] = "environment"
	}
	if val := os.Getenv("CONVOYD_REDIS_ADDR"); val != "" {
		c.RedisAddr = val
		c.sources["redis_addr"] = "environment"
	}
	if val := os.Getenv("CONVOYD_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = "environment"
	}
	if val := os.Getenv("CONVOYD_SSL_REDIRECT"); val != "" {
		c.SSLRedirect = val == "true" || val == "1"
		c.sources["ssl_redirect"] = "environment"
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenLifetime returns the credential TTL as a duration
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// ProfileCacheLifetime returns the profile cache TTL as a duration
func (c *Config) ProfileCacheLifetime() time.Duration {
	return time.Duration(c.ProfileCacheTTL) * time.Second
}

// ProfileCacheEnabled reports whether loaded profiles are cached
func (c *Config) ProfileCacheEnabled() bool {
	return c.ProfileCacheTTL > 0
}

// WriteFile writes the configuration as YAML to path, creating its
// directory. Secrets live in the environment and are never written.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// JWTSecret returns the credential signing secret from the environment
func JWTSecret() []byte {
	return []byte(os.Getenv(EnvJWTSecret))
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token_ttl value: %d", c.TokenTTL)
	}
	if c.ProfileCacheTTL < 0 {
		return fmt.Errorf("invalid profile_cache_ttl value: %d", c.ProfileCacheTTL)
	}
	if c.ProfileCacheEnabled() && c.RedisAddr == "" {
		return fmt.Errorf("profile_cache_ttl is set but redis_addr is empty")
	}
	if c.SigninRateLimit <= 0 {
		return fmt.Errorf("invalid signin_rate_limit value: %d", c.SigninRateLimit)
	}
	if strings.TrimSpace(c.DefaultRole) == "" {
		return fmt.Errorf("default_role must not be empty")
	}
	if c.SuperRole != "" && c.SuperRole == c.DefaultRole {
		return fmt.Errorf("default_role must differ from super_role")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	secret := "(not set)"
	if len(JWTSecret()) > 0 {
		secret = "(set)"
	}
	return []Attribute{
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "super_role", Value: c.SuperRole, Source: c.Source("super_role")},
		{Name: "default_role", Value: c.DefaultRole, Source: c.Source("default_role")},
		{Name: "profile_cache_ttl", Value: strconv.Itoa(c.ProfileCacheTTL), Source: c.Source("profile_cache_ttl")},
		{Name: "redis_addr", Value: c.RedisAddr, Source: c.Source("redis_addr")},
		{Name: "signin_rate_limit", Value: strconv.Itoa(c.SigninRateLimit), Source: c.Source("signin_rate_limit")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "ssl_redirect", Value: strconv.FormatBool(c.SSLRedirect), Source: c.Source("ssl_redirect")},
		{Name: "jwt_secret", Value: secret, Source: "environment"},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
