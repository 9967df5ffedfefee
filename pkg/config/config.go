package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/promhippie/jenkins_client/pkg/jenkins"
	"gopkg.in/yaml.v3"
)

// Server defines the general server configuration.
type Server struct {
	Addr    string
	Path    string
	Timeout time.Duration
	Web     string
	Pprof   bool
}

// Logs defines the level and color for log configuration.
type Logs struct {
	Level  string
	Pretty bool
}

// Target defines the target specific configuration.
type Target struct {
	Env      string
	Profiles string
	Timeout  time.Duration
	Crumbs   bool
}

// Cache defines the disk cache of the root listing.
type Cache struct {
	Enabled bool
	Dir     string
}

// Collector defines the collector specific configuration.
type Collector struct {
	Jobs              bool
	Queue             bool
	Computers         bool
	FetchBuildDetails bool
	Folders           []string
}

// Env defines the connection settings of a single Jenkins server.
type Env struct {
	HostURL  string `yaml:"hostUrl"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	APIToken string `yaml:"apiToken"`
}

// Output defines the output configuration of the inspect commands.
type Output struct {
	Format string
}

// Profiles defines a default server together with named overrides.
type Profiles struct {
	Default Env            `yaml:"default"`
	Envs    map[string]Env `yaml:"envs"`
}

// Config is a combination of all available configurations.
type Config struct {
	Server    Server
	Logs      Logs
	Target    Target
	Default   Env
	Cache     Cache
	Collector Collector
	Output    Output
}

// Load initializes a default configuration struct.
func Load() *Config {
	return &Config{}
}

// Merge returns a copy of the env where all non-empty fields of the
// override win.
func (e Env) Merge(override Env) Env {
	if override.HostURL != "" {
		e.HostURL = override.HostURL
	}

	if override.Username != "" {
		e.Username = override.Username
	}

	if override.Password != "" {
		e.Password = override.Password
	}

	if override.APIToken != "" {
		e.APIToken = override.APIToken
	}

	return e
}

// Resolve returns a copy of the env with all secrets resolved by Value.
func (e Env) Resolve() (Env, error) {
	var err error

	if e.Username, err = Value(e.Username); err != nil {
		return e, fmt.Errorf("failed to resolve username: %w", err)
	}

	if e.Password, err = Value(e.Password); err != nil {
		return e, fmt.Errorf("failed to resolve password: %w", err)
	}

	if e.APIToken, err = Value(e.APIToken); err != nil {
		return e, fmt.Errorf("failed to resolve api token: %w", err)
	}

	return e, nil
}

// JobPageURL returns the page URL of a job on this server.
func (e Env) JobPageURL(name string) string {
	return strings.TrimRight(e.HostURL, "/") + "/" + jenkins.JobPath(name)
}

// ViewPageURL returns the page URL of a view on this server.
func (e Env) ViewPageURL(name string) string {
	return strings.TrimRight(e.HostURL, "/") + "/view/" + url.PathEscape(name)
}

// LoadProfiles parses a YAML profile file.
func LoadProfiles(path string) (*Profiles, error) {
	content, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	result := &Profiles{}

	if err := yaml.Unmarshal(content, result); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	if result.Envs == nil {
		result.Envs = make(map[string]Env)
	}

	return result, nil
}

// Value returns the config value based on a DSN.
func Value(val string) (string, error) {
	if strings.HasPrefix(val, "file://") {
		content, err := os.ReadFile(
			strings.TrimPrefix(val, "file://"),
		)

		if err != nil {
			return "", fmt.Errorf("failed to parse secret file: %w", err)
		}

		return strings.TrimSpace(string(content)), nil
	}

	if strings.HasPrefix(val, "base64://") {
		content, err := base64.StdEncoding.DecodeString(
			strings.TrimPrefix(val, "base64://"),
		)

		if err != nil {
			return "", fmt.Errorf("failed to parse base64 value: %w", err)
		}

		return string(content), nil
	}

	return val, nil
}
