package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ddlgen/ddlgen/gen"
	helpers "github.com/ddlgen/ddlgen/gen/ddlgen-helpers"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	app := &cli.App{
		Name:      "ddlgen-php",
		Usage:     "Generate a PHP data access layer from your SQL schema files",
		UsageText: "ddlgen-php [-c FILE] [-o DIR] [schema.sql ...]",
		Version:   helpers.Version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   helpers.DefaultConfigPath,
				Usage:   "Load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "php",
				Usage:   "Write the generated files into `DIR`",
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "Print an overview of the parsed schema",
			},
			&cli.StringFlag{
				Name:  "schema-json",
				Usage: "Write the parsed schema as JSON to `FILE`",
			},
		},
		Action: run,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	config, err := helpers.GetConfigFromFile(c.String("config"))
	if err != nil {
		return err
	}

	input, err := readInputs(c.Args().Slice(), c.App.Reader)
	if err != nil {
		return err
	}

	schema, err := gen.ParseSchema(input, config)
	if err != nil {
		return err
	}

	for _, name := range gen.DuplicateTableNames(schema) {
		slog.Warn("table declared in more than one database, record classes collide", "table", name)
	}

	for _, fk := range gen.UnresolvedForeignKeys(schema) {
		slog.Warn("foreign key target has no single record accessor, it will not be resolved",
			"foreign_key", fk.String())
	}

	if c.Bool("summary") {
		summary, err := gen.Summary(schema)
		if err != nil {
			return err
		}
		fmt.Fprint(c.App.Writer, summary)
	}

	if path := c.String("schema-json"); path != "" {
		data, err := json.MarshalIndent(schema.Describe(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding schema: %w", err)
		}
		if err := os.WriteFile(path, data, 0o664); err != nil {
			return fmt.Errorf("writing schema json: %w", err)
		}
	}

	files, err := gen.Run(schema, config)
	if err != nil {
		return err
	}

	outFolder := c.String("output")
	if err := gen.WriteFiles(outFolder, files); err != nil {
		return err
	}

	slog.Info("generated files", "folder", outFolder, "files", strings.Join(files.Names(), ", "))
	return nil
}

// readInputs concatenates the schema files in order, stdin is read
// when no file is given
func readInputs(paths []string, stdin io.Reader) (string, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	var sb strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading schema file: %w", err)
		}
		sb.Write(data)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
