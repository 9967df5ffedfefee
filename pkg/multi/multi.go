// Package multi creates Jenkins clients for several named environments.
package multi

import (
	"log/slog"
	"sync"
	"time"

	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
)

// Multi holds a default environment and named overrides.
type Multi struct {
	Default     config.Env
	Envs        map[string]config.Env
	EnableCache bool
	CacheDir    string
	Crumbs      bool
	Timeout     time.Duration
	Logger      *slog.Logger

	mu     sync.RWMutex
	active string
}

// New creates a factory from loaded profiles.
func New(profiles *config.Profiles) *Multi {
	return &Multi{
		Default: profiles.Default,
		Envs:    profiles.Envs,
	}
}

// UseEnv sets the environment used when no name is passed. An empty name
// keeps the current one.
func (m *Multi) UseEnv(name string) *Multi {
	if name == "" {
		return m
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = name
	return m
}

// Active returns the environment set by UseEnv.
func (m *Multi) Active() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.active
}

// EnvConfig resolves the settings of an environment. Without a name the
// active environment is used, falling back to the default settings.
func (m *Multi) EnvConfig(name string) (config.Env, error) {
	if name == "" {
		name = m.Active()
	}

	if name == "" {
		return m.Default, nil
	}

	override, ok := m.Envs[name]

	if !ok {
		return config.Env{}, &jenkins.ConfigError{Env: name}
	}

	return m.Default.Merge(override), nil
}

// Create builds a new client for an environment on every call.
func (m *Multi) Create(name string) (*jenkins.Client, error) {
	env, err := m.EnvConfig(name)

	if err != nil {
		return nil, err
	}

	env, err = env.Resolve()

	if err != nil {
		return nil, err
	}

	opts := []jenkins.Option{
		jenkins.WithEndpoint(env.HostURL),
		jenkins.WithUsername(env.Username),
		jenkins.WithPassword(env.Password),
		jenkins.WithToken(env.APIToken),
		jenkins.WithLogger(m.Logger),
	}

	if m.Timeout > 0 {
		opts = append(opts, jenkins.WithTimeout(m.Timeout))
	}

	if m.EnableCache {
		opts = append(opts, jenkins.WithCache(m.CacheDir))
	}

	if m.Crumbs {
		opts = append(opts, jenkins.WithCrumbs())
	}

	return jenkins.NewClient(opts...)
}

// Get is an alias for Create.
func (m *Multi) Get(name string) (*jenkins.Client, error) {
	return m.Create(name)
}
