package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"tidemark/internal/back"
	"tidemark/internal/config"
	"tidemark/internal/hero"

	_ "github.com/mattn/go-sqlite3"
)

// Version holds the build-time version string.
var Version = "unknown" // nolint:gochecknoglobals

func main() {
	flag.Parse()

	if err := dispatch(flag.Arg(0)); err != nil {
		log.Fatalf("error: %s", err)
	}
}

func dispatch(command string) error {
	switch command {
	case "version":
		fmt.Fprintf(os.Stdout, "Tidemark %s\n", Version)
		return nil
	case "migrate":
		cfg, err := config.NewFromUserConfigDir()
		if err != nil {
			return err
		}
		return migrateCmd(cfg)
	case "dev:fixtures":
		b, _, err := openBack()
		if err != nil {
			return err
		}
		return b.LoadFixtures()
	case "rerate":
		b, _, err := openBack()
		if err != nil {
			return err
		}
		return b.Rerate()
	case "serve":
		b, cfg, err := openBack()
		if err != nil {
			return err
		}
		return serve(b, cfg)
	case "help":
		fmt.Fprint(os.Stdout, help())
		return nil
	default:
		fmt.Fprint(os.Stderr, help())
		os.Exit(1)
		return nil
	}
}

func openBack() (*back.Back, *config.Config, error) {
	cfg, err := config.NewFromUserConfigDir()
	if err != nil {
		return nil, nil, err
	}

	b, err := back.New("sqlite3", cfg.DatabasePath, hero.Default())
	if err != nil {
		return nil, nil, err
	}

	return b, cfg, nil
}

func help() string {
	return fmt.Sprintf(`
Tidemark records matches of your favorite team board game, tracks player
skill over time, and digs up hero synergies.

Usage: %[1]s COMMAND [ARGS…]

COMMANDS
    dev:fixtures create default data for quick testing during development
    help         display this help
    migrate      upgrade the database schema to the current version
    rerate       replay the whole match log and rebuild every rating
    serve        start the JSON API server
    version      display the current version
`,
		os.Args[0],
	)
}
