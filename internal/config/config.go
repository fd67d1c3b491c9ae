package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charliek/logview/internal/constants"
	"github.com/charliek/logview/internal/domain"
	"gopkg.in/yaml.v3"
)

// Provider types accepted in the providers section.
const (
	ProviderMemory   = "memory"
	ProviderFile     = "file"
	ProviderPostgres = "postgres"
	ProviderRedis    = "redis"
)

// Authentication type labels reported to the UI.
const (
	AuthTypeNone  = "None"
	AuthTypeLocal = "Local"
	AuthTypeToken = "Token"
	AuthTypeBasic = "Basic"
	AuthTypeJWT   = "Jwt"
)

// Config represents the top-level logview configuration
type Config struct {
	EnvFile         string           `yaml:"env_file"`
	Logging         LoggingConfig    `yaml:"logging"`
	Server          ServerConfig     `yaml:"server"`
	UI              UIConfig         `yaml:"ui"`
	Auth            AuthConfig       `yaml:"auth"`
	SelfLogs        SelfLogsConfig   `yaml:"self_logs"`
	DefaultProvider string           `yaml:"default_provider"`
	Providers       []ProviderConfig `yaml:"providers" validate:"dive"`
}

// LoggingConfig configures the process logger
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// ServerConfig defines the HTTP listener
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=0,max=65535"`
}

// Address returns host:port for the listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UIConfig holds the options handed to the embedded UI
type UIConfig struct {
	RoutePrefix string `yaml:"route_prefix"`
	HomeURL     string `yaml:"home_url"`
	AuthType    string `yaml:"auth_type" validate:"omitempty,oneof=None Local Token Basic Jwt"`
	HeadContent string `yaml:"head_content"`
	BodyContent string `yaml:"body_content"`
}

// AuthConfig lists the filters that make up the authorization chain.
// Every configured filter must pass.
type AuthConfig struct {
	LocalOnly bool             `yaml:"local_only"`
	Token     string           `yaml:"token"`
	Basic     *BasicAuthConfig `yaml:"basic,omitempty"`
	JWT       *JWTConfig       `yaml:"jwt,omitempty"`
}

// BasicAuthConfig defines HTTP basic credentials
type BasicAuthConfig struct {
	Username     string `yaml:"username" validate:"required"`
	PasswordHash string `yaml:"password_hash" validate:"required"`
}

// JWTConfig defines HS256 bearer token verification
type JWTConfig struct {
	Secret string `yaml:"secret" validate:"required,min=16"`
	Role   string `yaml:"role"`
}

// SelfLogsConfig controls the built-in provider holding the server's own logs
type SelfLogsConfig struct {
	Disabled bool `yaml:"disabled"`
	Capacity int  `yaml:"capacity" validate:"min=0"`
}

// ProviderConfig describes one named log source
type ProviderConfig struct {
	Name       string `yaml:"name" validate:"required"`
	Type       string `yaml:"type" validate:"required,oneof=memory file postgres redis"`
	Path       string `yaml:"path" validate:"required_if=Type file"`
	DSN        string `yaml:"dsn" validate:"required_if=Type postgres"`
	Table      string `yaml:"table"`
	Addr       string `yaml:"addr" validate:"required_if=Type redis"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db" validate:"min=0"`
	Key        string `yaml:"key"`
	MaxEntries int    `yaml:"max_entries" validate:"min=0"`
	Capacity   int    `yaml:"capacity" validate:"min=0"`
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	// First check if file exists
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	// Check file permissions for security
	if err := CheckFilePermissions(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return parse(data, filepath.Dir(path))
}

// Parse parses configuration from YAML bytes. A relative env_file is
// resolved against the working directory.
func Parse(data []byte) (*Config, error) {
	return parse(data, "")
}

func parse(data []byte, baseDir string) (*Config, error) {
	// env_file has to be known before anything else can be expanded
	var head struct {
		EnvFile string `yaml:"env_file"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	var fileEnv map[string]string
	if head.EnvFile != "" {
		env, err := LoadEnvFile(resolvePath(head.EnvFile, baseDir))
		if err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
		fileEnv = env
	}

	var config Config
	if err := yaml.Unmarshal(ExpandEnv(data, fileEnv), &config); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ExpandEnv replaces ${VAR} references, looking in env first and then the
// process environment. Unknown variables expand to the empty string. Bare
// $VAR is left alone so bcrypt hashes survive.
func ExpandEnv(data []byte, env map[string]string) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		name := string(envRef.FindSubmatch(ref)[1])
		if v, ok := env[name]; ok {
			return []byte(v)
		}
		return []byte(os.Getenv(name))
	})
}

func applyDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = constants.DefaultAPIHost
	}
	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultAPIPort
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "json"
	}

	config.UI.RoutePrefix = strings.Trim(config.UI.RoutePrefix, "/")
	if config.UI.RoutePrefix == "" {
		config.UI.RoutePrefix = constants.DefaultRoutePrefix
	}
	if config.UI.HomeURL == "" {
		config.UI.HomeURL = constants.DefaultHomeURL
	}
	if config.UI.AuthType == "" {
		config.UI.AuthType = config.Auth.Type()
	}

	if config.SelfLogs.Capacity == 0 {
		config.SelfLogs.Capacity = constants.DefaultMemoryCapacity
	}

	for i := range config.Providers {
		p := &config.Providers[i]
		p.Type = strings.ToLower(p.Type)
		switch p.Type {
		case ProviderMemory:
			if p.Capacity == 0 {
				p.Capacity = constants.DefaultMemoryCapacity
			}
		case ProviderPostgres:
			if p.Table == "" {
				p.Table = constants.DefaultPostgresTable
			}
		case ProviderRedis:
			if p.Key == "" {
				p.Key = constants.DefaultRedisKey
			}
		}
	}
}

// Type returns the label of the strongest configured filter.
func (a AuthConfig) Type() string {
	switch {
	case a.JWT != nil:
		return AuthTypeJWT
	case a.Basic != nil:
		return AuthTypeBasic
	case a.Token != "":
		return AuthTypeToken
	case a.LocalOnly:
		return AuthTypeLocal
	default:
		return AuthTypeNone
	}
}

// ProviderNames returns the configured provider names in declaration order,
// with the self provider first when enabled.
func (c *Config) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers)+1)
	if !c.SelfLogs.Disabled {
		names = append(names, constants.SelfProviderName)
	}
	for _, p := range c.Providers {
		names = append(names, p.Name)
	}
	return names
}
