// Command migrate applies or rolls back the SQL schema migrations.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"vidtube/internal/config"
	"vidtube/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|version> [steps]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	url := database.MigrationURL(cfg)

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		return database.MigrateUp(url)
	case "down":
		steps := 1
		if flag.NArg() >= 2 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", flag.Arg(1), err)
			}
		}
		return database.MigrateDown(url, steps)
	case "version":
		version, dirty, err := database.MigrationVersion(url)
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		log.Printf("version=%d dirty=%t", version, dirty)
		return nil
	default:
		return usage()
	}
}
