package main

import (
	"log"
	"path/filepath"

	"tidemark/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func migrateCmd(cfg *config.Config) error {
	migrationsDir := filepath.Join(cfg.ResourcesDir, "migrations")

	migrator, err := migrate.New(
		"file://"+migrationsDir,
		"sqlite3://"+cfg.DatabasePath,
	)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Print("info: schema already up to date")
			return nil
		}

		return err
	}

	log.Print("info: schema migrated")

	return nil
}
