package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/syllabus/internal"
	pkgconfig "github.com/starford/syllabus/pkg/config"
)

func action(command internal.Command, extra func(*cli.Command) []internal.Option) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
		}
		if extra != nil {
			opts = append(opts, extra(cmd)...)
		}

		if err := internal.Run(ctx, command, opts...); err != nil {
			return fmt.Errorf("%s: %w", command, err)
		}

		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "syllabus",
		Usage: "Build, validate and publish the multilingual content and search indexes of the portal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Validate and compile the content tree, write artifacts and publish search indexes",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-publish",
						Usage: "Write build artifacts only",
					},
				},
				Action: action(internal.CommandBuild, func(cmd *cli.Command) []internal.Option {
					return []internal.Option{internal.WithPublish(!cmd.Bool("no-publish"))}
				}),
			},
			{
				Name:   "validate",
				Usage:  "Check the content tree and print every problem found",
				Action: action(internal.CommandValidate, nil),
			},
			{
				Name:   "publish",
				Usage:  "Publish existing build artifacts into the public directory",
				Action: action(internal.CommandPublish, nil),
			},
			{
				Name:   "watch",
				Usage:  "Rebuild and republish whenever the content tree changes",
				Action: action(internal.CommandWatch, nil),
			},
			{
				Name:  "serve",
				Usage: "Serve published assets with health, metrics and build history endpoints",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Also rebuild on content changes and stream build events at /api/events",
					},
				},
				Action: action(internal.CommandServe, func(cmd *cli.Command) []internal.Option {
					return []internal.Option{internal.WithServeWatch(cmd.Bool("watch"))}
				}),
			},
			{
				Name:  "history",
				Usage: "Print recent builds from the ledger",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of builds to show",
						Value:   20,
					},
				},
				Action: action(internal.CommandHistory, func(cmd *cli.Command) []internal.Option {
					return []internal.Option{internal.WithHistoryLimit(int(cmd.Int("limit")))}
				}),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
