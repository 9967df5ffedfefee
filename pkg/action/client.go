package action

import (
	"log/slog"

	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
	"github.com/promhippie/jenkins_client/pkg/multi"
)

// factory builds the environment factory from the flags and the optional
// profile file.
func factory(cfg *config.Config, logger *slog.Logger) (*multi.Multi, error) {
	profiles := &config.Profiles{
		Envs: make(map[string]config.Env),
	}

	if cfg.Target.Profiles != "" {
		loaded, err := config.LoadProfiles(cfg.Target.Profiles)

		if err != nil {
			logger.Error("Failed to load profiles",
				"file", cfg.Target.Profiles,
				"err", err,
			)

			return nil, err
		}

		profiles = loaded
	}

	result := multi.New(profiles)
	result.Default = result.Default.Merge(cfg.Default)
	result.EnableCache = cfg.Cache.Enabled
	result.CacheDir = cfg.Cache.Dir
	result.Crumbs = cfg.Target.Crumbs
	result.Timeout = cfg.Target.Timeout
	result.Logger = logger

	return result.UseEnv(cfg.Target.Env), nil
}

// newClient creates a client for the selected environment.
func newClient(cfg *config.Config, logger *slog.Logger) (*jenkins.Client, error) {
	envs, err := factory(cfg, logger)

	if err != nil {
		return nil, err
	}

	result, err := envs.Create("")

	if err != nil {
		logger.Error("Failed to create client",
			"env", envs.Active(),
			"err", err,
		)

		return nil, err
	}

	return result, nil
}
