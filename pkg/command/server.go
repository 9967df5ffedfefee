package command

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/promhippie/jenkins_client/pkg/action"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/urfave/cli/v3"
)

const (
	defaultTimeout = 10 * time.Second
)

// Server provides the sub-command to start the server.
func Server(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start integrated server",
		Flags: ServerFlags(cfg),
		Action: func(_ context.Context, _ *cli.Command) error {
			logger := setupLogger(cfg)

			if cfg.Default.HostURL == "" && cfg.Target.Profiles == "" {
				logger.Error("Missing required jenkins.url or profiles")
				return fmt.Errorf("missing required jenkins.url or profiles")
			}

			return action.Server(cfg, logger)
		},
	}
}

// Health provides the sub-command to perform a health check.
func Health(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Perform health checks",
		Flags: ServerFlags(cfg),
		Action: func(ctx context.Context, _ *cli.Command) error {
			logger := setupLogger(cfg)

			req, err := http.NewRequestWithContext(
				ctx,
				http.MethodGet,
				fmt.Sprintf("http://%s/healthz", cfg.Server.Addr),
				nil,
			)

			if err != nil {
				return err
			}

			resp, err := http.DefaultClient.Do(req)

			if err != nil {
				logger.Error("Failed to request health check",
					"err", err,
				)

				return err
			}

			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				logger.Error("Health seems to be in bad state",
					"err", err,
					"code", resp.StatusCode,
				)

				return fmt.Errorf("health check returned %d", resp.StatusCode)
			}

			logger.Debug("Health check seems to be fine",
				"code", resp.StatusCode,
			)

			return nil
		},
	}
}

// ServerFlags defines the available server flags.
func ServerFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "web.address",
			Value:       "0.0.0.0:9506",
			Usage:       "Address to bind the metrics server",
			Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_ADDRESS"),
			Destination: &cfg.Server.Addr,
		},
		&cli.BoolFlag{
			Name:        "web.debug",
			Value:       false,
			Usage:       "Enable pprof debugging for server",
			Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_PPROF"),
			Destination: &cfg.Server.Pprof,
		},
		&cli.StringFlag{
			Name:        "web.path",
			Value:       "/metrics",
			Usage:       "Path to bind the metrics server",
			Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_PATH"),
			Destination: &cfg.Server.Path,
		},
		&cli.DurationFlag{
			Name:        "web.timeout",
			Value:       defaultTimeout,
			Usage:       "Server metrics endpoint timeout",
			Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_TIMEOUT"),
			Destination: &cfg.Server.Timeout,
		},
		&cli.StringFlag{
			Name:        "web.config",
			Value:       "",
			Usage:       "Path to web-config file",
			Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_CONFIG"),
			Destination: &cfg.Server.Web,
		},
		&cli.BoolFlag{
			Name:        "collector.jobs",
			Value:       true,
			Usage:       "Enable collector for jobs",
			Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_JOBS"),
			Destination: &cfg.Collector.Jobs,
		},
		&cli.BoolFlag{
			Name:        "collector.jobs.details",
			Value:       true,
			Usage:       "Fetch the last build of every job",
			Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_JOBS_DETAILS"),
			Destination: &cfg.Collector.FetchBuildDetails,
		},
		&cli.StringSliceFlag{
			Name:        "collector.jobs.folders",
			Value:       []string{},
			Usage:       "Only walk jobs below these folders",
			Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_JOBS_FOLDERS"),
			Destination: &cfg.Collector.Folders,
		},
		&cli.BoolFlag{
			Name:        "collector.queue",
			Value:       true,
			Usage:       "Enable collector for the build queue",
			Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_QUEUE"),
			Destination: &cfg.Collector.Queue,
		},
		&cli.BoolFlag{
			Name:        "collector.computers",
			Value:       false,
			Usage:       "Enable collector for agents",
			Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_COMPUTERS"),
			Destination: &cfg.Collector.Computers,
		},
	}
}
