package command

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/version"
	"github.com/urfave/cli/v3"
)

// Run parses the command line arguments and executes the program.
func Run() error {
	return New(config.Load()).Run(context.Background(), os.Args)
}

// New builds the root command for the given configuration.
func New(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "jenkins_client",
		Version: version.String,
		Usage:   "Jenkins API client and exporter",
		Authors: []any{
			"Thomas Boerger <thomas@webhippie.de>",
		},
		Flags: RootFlags(cfg),
		Commands: []*cli.Command{
			Server(cfg),
			Jobs(cfg),
			Job(cfg),
			Launch(cfg),
			Build(cfg),
			Console(cfg),
			Queue(cfg),
			Cancel(cfg),
			Computers(cfg),
			Views(cfg),
			Available(cfg),
			Env(cfg),
			Health(cfg),
		},
	}
}

// RootFlags defines the available root flags.
func RootFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log.level",
			Value:       "info",
			Usage:       "Only log messages with given severity",
			Sources:     cli.EnvVars("JENKINS_CLIENT_LOG_LEVEL"),
			Destination: &cfg.Logs.Level,
		},
		&cli.BoolFlag{
			Name:        "log.pretty",
			Value:       false,
			Usage:       "Enable pretty messages for logging",
			Sources:     cli.EnvVars("JENKINS_CLIENT_LOG_PRETTY"),
			Destination: &cfg.Logs.Pretty,
		},
		&cli.StringFlag{
			Name:        "output",
			Value:       "json",
			Usage:       "Output format of list commands, json or table",
			Sources:     cli.EnvVars("JENKINS_CLIENT_OUTPUT"),
			Destination: &cfg.Output.Format,
		},
		&cli.StringFlag{
			Name:        "jenkins.url",
			Value:       "",
			Usage:       "URL to access the Jenkins server",
			Sources:     cli.EnvVars("JENKINS_CLIENT_URL"),
			Destination: &cfg.Default.HostURL,
		},
		&cli.StringFlag{
			Name:        "jenkins.username",
			Value:       "",
			Usage:       "Username for the Jenkins authentication",
			Sources:     cli.EnvVars("JENKINS_CLIENT_USERNAME"),
			Destination: &cfg.Default.Username,
		},
		&cli.StringFlag{
			Name:        "jenkins.password",
			Value:       "",
			Usage:       "Password for the Jenkins authentication",
			Sources:     cli.EnvVars("JENKINS_CLIENT_PASSWORD"),
			Destination: &cfg.Default.Password,
		},
		&cli.StringFlag{
			Name:        "jenkins.token",
			Value:       "",
			Usage:       "API token for the Jenkins authentication",
			Sources:     cli.EnvVars("JENKINS_CLIENT_TOKEN"),
			Destination: &cfg.Default.APIToken,
		},
		&cli.DurationFlag{
			Name:        "jenkins.timeout",
			Value:       defaultTimeout,
			Usage:       "Timeout for requests to the Jenkins server",
			Sources:     cli.EnvVars("JENKINS_CLIENT_TIMEOUT"),
			Destination: &cfg.Target.Timeout,
		},
		&cli.BoolFlag{
			Name:        "jenkins.crumbs",
			Value:       false,
			Usage:       "Negotiate a crumb before mutating requests",
			Sources:     cli.EnvVars("JENKINS_CLIENT_CRUMBS"),
			Destination: &cfg.Target.Crumbs,
		},
		&cli.StringFlag{
			Name:        "profiles",
			Value:       "",
			Usage:       "Path to a YAML file with environment profiles",
			Sources:     cli.EnvVars("JENKINS_CLIENT_PROFILES"),
			Destination: &cfg.Target.Profiles,
		},
		&cli.StringFlag{
			Name:        "env",
			Value:       "",
			Usage:       "Name of the environment profile to use",
			Sources:     cli.EnvVars("JENKINS_CLIENT_ENV"),
			Destination: &cfg.Target.Env,
		},
		&cli.BoolFlag{
			Name:        "cache.enabled",
			Value:       false,
			Usage:       "Cache the root listing on disk",
			Sources:     cli.EnvVars("JENKINS_CLIENT_CACHE_ENABLED"),
			Destination: &cfg.Cache.Enabled,
		},
		&cli.StringFlag{
			Name:        "cache.dir",
			Value:       defaultCacheDir(),
			Usage:       "Directory for the disk cache",
			Sources:     cli.EnvVars("JENKINS_CLIENT_CACHE_DIR"),
			Destination: &cfg.Cache.Dir,
		},
	}
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: loggerLevel(cfg),
	}

	if cfg.Logs.Pretty {
		return slog.New(
			slog.NewTextHandler(os.Stderr, opts),
		)
	}

	return slog.New(
		slog.NewJSONHandler(os.Stderr, opts),
	)
}

func loggerLevel(cfg *config.Config) slog.Leveler {
	switch strings.ToLower(cfg.Logs.Level) {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()

	if err != nil {
		return os.TempDir()
	}

	return dir + string(os.PathSeparator) + "jenkins_client"
}
