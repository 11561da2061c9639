package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/pinkflow/pinkflow/pkg/cmd"
	"github.com/pinkflow/pinkflow/pkg/log"
)

const defaultPort = 9091

func main() {
	command := &cli.Command{
		Name:                  "pinkflow-api",
		Usage:                 "Inspect and execute registered workflows over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, memory, none)",
				Value:   "memory",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "history-url",
				Usage:   "History sink URL (redis://... or memory)",
				Value:   "memory",
				Sources: cli.EnvVars("HISTORY_URL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.BoolFlag{
				Name:  "with-demo",
				Usage: "Register the built-in demo workflows on startup",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing PinkFlow API")

			mgr, err := cmd.NewManager(ctx, logger, cmd.Config{
				EventBusProvider: command.String("event-bus"),
				HistoryURL:       command.String("history-url"),
				TracingEnabled:   command.Bool("tracing"),
				ServiceName:      "pinkflow-api",
			})
			if err != nil {
				return err
			}

			api := NewAPI(logger, mgr)

			if command.Bool("with-demo") {
				if err := api.RegisterDemoWorkflows(ctx); err != nil {
					return err
				}
			}

			return api.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
