package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/promhippie/jenkins_client/pkg/action"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/urfave/cli/v3"
)

// Jobs provides the sub-command to list jobs.
func Jobs(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "List all jobs",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return action.Jobs(ctx, cfg, setupLogger(cfg), cmd.Root().Writer)
		},
	}
}

// Job provides the sub-command to show a job.
func Job(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "job",
		Usage:     "Show a job with its parameters",
		ArgsUsage: "<name>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name, err := requireArg(cmd, 0, "name")

			if err != nil {
				return err
			}

			return action.Job(ctx, cfg, setupLogger(cfg), cmd.Root().Writer, name)
		},
	}
}

// Launch provides the sub-command to trigger a build.
func Launch(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "launch",
		Usage:     "Trigger a build of a job",
		ArgsUsage: "<name> [KEY=VALUE...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name, err := requireArg(cmd, 0, "name")

			if err != nil {
				return err
			}

			params, err := parseParams(cmd.Args().Tail())

			if err != nil {
				return err
			}

			return action.Launch(ctx, cfg, setupLogger(cfg), cmd.Root().Writer, name, params)
		},
	}
}

// Build provides the sub-command to show a build.
func Build(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Show a build, the last one if no number is given",
		ArgsUsage: "<name> [number]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name, err := requireArg(cmd, 0, "name")

			if err != nil {
				return err
			}

			number := 0

			if cmd.Args().Len() > 1 {
				if number, err = parseNumber(cmd.Args().Get(1)); err != nil {
					return err
				}
			}

			return action.Build(ctx, cfg, setupLogger(cfg), cmd.Root().Writer, name, number)
		},
	}
}

// Console provides the sub-command to print a console log.
func Console(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "console",
		Usage:     "Print the console log of a build",
		ArgsUsage: "<name> <number>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name, err := requireArg(cmd, 0, "name")

			if err != nil {
				return err
			}

			raw, err := requireArg(cmd, 1, "number")

			if err != nil {
				return err
			}

			number, err := parseNumber(raw)

			if err != nil {
				return err
			}

			return action.Console(ctx, cfg, setupLogger(cfg), cmd.Root().Writer, name, number)
		},
	}
}

// Queue provides the sub-command to list the build queue.
func Queue(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "List the build queue",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return action.Queue(ctx, cfg, setupLogger(cfg), cmd.Root().Writer)
		},
	}
}

// Cancel provides the sub-command to cancel a queue item.
func Cancel(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "cancel",
		Usage:     "Cancel an item of the build queue",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			raw, err := requireArg(cmd, 0, "id")

			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(raw, 10, 64)

			if err != nil {
				return fmt.Errorf("invalid queue id %q: %w", raw, err)
			}

			return action.Cancel(ctx, cfg, setupLogger(cfg), id)
		},
	}
}

// Computers provides the sub-command to list agents.
func Computers(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "computers",
		Usage: "List all agents",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return action.Computers(ctx, cfg, setupLogger(cfg), cmd.Root().Writer)
		},
	}
}

// Views provides the sub-command to list views.
func Views(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "views",
		Usage: "List all views",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return action.Views(ctx, cfg, setupLogger(cfg), cmd.Root().Writer)
		},
	}
}

// Available provides the sub-command to check the server.
func Available(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "available",
		Usage: "Check if the server is available",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return action.Available(ctx, cfg, setupLogger(cfg), cmd.Root().Writer)
		},
	}
}

// Env provides the sub-command to show the resolved environment.
func Env(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Show the resolved environment without secrets",
		ArgsUsage: "[env]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return action.Env(cfg, setupLogger(cfg), cmd.Root().Writer, cmd.Args().First())
		},
	}
}

func requireArg(cmd *cli.Command, idx int, name string) (string, error) {
	value := cmd.Args().Get(idx)

	if value == "" {
		return "", fmt.Errorf("missing required argument %s", name)
	}

	return value, nil
}

func parseNumber(raw string) (int, error) {
	number, err := strconv.Atoi(raw)

	if err != nil || number < 1 {
		return 0, fmt.Errorf("invalid build number %q", raw)
	}

	return number, nil
}

func parseParams(args []string) (map[string]string, error) {
	result := make(map[string]string, len(args))

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")

		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected KEY=VALUE", arg)
		}

		result[key] = value
	}

	return result, nil
}
