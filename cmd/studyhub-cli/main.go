package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"studyhub/internal/catalog"
	"studyhub/internal/cli"
	"studyhub/internal/config"
	"studyhub/internal/logging"
	"studyhub/internal/quiz"
	"studyhub/internal/study"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	catalogPath := flag.String("catalog", cfg.CatalogPath, "YAML test catalog (defaults to the built-in one)")
	flag.Parse()

	if err := run(*catalogPath, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(catalogPath string, cfg config.Config) error {
	var (
		source *catalog.Static
		err    error
	)
	if catalogPath == "" {
		source, err = catalog.Default()
	} else {
		source, err = catalog.LoadFile(catalogPath)
	}
	if err != nil {
		return err
	}

	topics, err := study.Default()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, "text", cfg.LogLevel)
	driver := cli.NewLocalDriver(source, topics, quiz.WithLogger(logger))
	return cli.Run(context.Background(), driver, os.Stdin, os.Stdout)
}
