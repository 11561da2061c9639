package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/pinkflow/pinkflow/internal/demo"
	"github.com/pinkflow/pinkflow/pkg/cmd"
	"github.com/pinkflow/pinkflow/pkg/log"
	"github.com/pinkflow/pinkflow/pkg/manager"
	"github.com/pinkflow/pinkflow/pkg/models"
)

func main() {
	command := &cli.Command{
		Name:                  "pinkflow",
		Usage:                 "Build, validate and execute workflow graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			demoCommand(),
			exportCommand(),
			validateCommand(),
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDemoManager(ctx context.Context, command *cli.Command) (*manager.Manager, error) {
	log.Setup(command.String("log-level"))
	logger := log.WithModule("cli")

	mgr, err := cmd.NewManager(ctx, logger, cmd.Config{
		EventBusProvider: "none",
		HistoryURL:       "memory",
		ServiceName:      "pinkflow",
	})
	if err != nil {
		return nil, err
	}

	workflows, err := demo.All()
	if err != nil {
		return nil, err
	}

	for _, wf := range workflows {
		if err := mgr.RegisterWorkflow(ctx, wf); err != nil {
			return nil, err
		}
	}

	return mgr, nil
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Execute the built-in demo workflows and print results",
		Action: func(ctx context.Context, command *cli.Command) error {
			m, err := newDemoManager(ctx, command)
			if err != nil {
				return err
			}

			for _, wf := range m.ListWorkflows("") {
				result, err := m.ExecuteWorkflow(ctx, wf.ID, models.Context{}, "")
				if err != nil {
					return err
				}

				fmt.Printf("%s [%s]: %s\n", wf.ID, wf.Environment, result[models.ContextKeyExecutionStatus])

				if path, ok := result[models.ContextKeyExecutionPath].([]string); ok {
					for _, nodeID := range path {
						fmt.Printf("  - %s\n", nodeID)
					}
				}
			}

			stats, err := m.GetStatistics(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\nexecutions: %d, successful: %d, failed: %d\n",
				stats.TotalExecutions, stats.SuccessfulExecutions, stats.FailedExecutions)

			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export the demo workflows to a JSON document",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, command *cli.Command) error {
			path := command.Args().First()
			if path == "" {
				return fmt.Errorf("export path is required")
			}

			m, err := newDemoManager(ctx, command)
			if err != nil {
				return err
			}

			if err := m.ExportToFile(path); err != nil {
				return err
			}

			fmt.Printf("exported %d workflows to %s\n", len(m.ListWorkflows("")), path)

			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate an exported workflow document",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, command *cli.Command) error {
			path := command.Args().First()
			if path == "" {
				return fmt.Errorf("document path is required")
			}

			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli")

			mgr, err := cmd.NewManager(ctx, logger, cmd.Config{
				EventBusProvider: "none",
				HistoryURL:       "memory",
				ServiceName:      "pinkflow",
			})
			if err != nil {
				return err
			}

			imported, err := mgr.ImportFromFile(ctx, path)
			if err != nil {
				return err
			}

			fmt.Printf("document valid: %d workflows\n", len(imported))

			for _, id := range imported {
				fmt.Printf("  - %s\n", id)
			}

			return nil
		},
	}
}
