package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/packapp/internal"
	"github.com/starford/packapp/internal/codec"
	"github.com/starford/packapp/internal/shelf"
	pkgconfig "github.com/starford/packapp/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadWithDefaults(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func newList(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := shelf.Compose(shelf.CreateInput{
		Name:     cmd.String("name"),
		Template: cmd.String("template"),
	})
	if err != nil {
		return err
	}
	loc, err := shelf.EncodeLocation(cfg.App.BaseURL, doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, loc)
	return err
}

func showList(_ context.Context, cmd *cli.Command) error {
	state := cmd.Args().First()
	if state == "" {
		return fmt.Errorf("usage: %s show <state>", cmd.Root().Name)
	}
	doc, err := codec.Decode(state)
	if err != nil {
		return err
	}
	return shelf.WriteTree(cmd.Root().Writer, doc)
}

func main() {
	cmd := &cli.Command{
		Name:    "packapp",
		Usage:   "Local-first packing lists shared through the URL, with an optional saved shelf",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (built-in defaults when missing)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:  "new",
				Usage: "Print the location of a new list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "Template id (see GET /api/templates)"},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "List name"},
				},
				Action: newList,
			},
			{
				Name:      "show",
				Usage:     "Print the list encoded in a URL state",
				ArgsUsage: "<state>",
				Action:    showList,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
