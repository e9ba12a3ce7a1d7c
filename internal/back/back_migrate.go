package back

import (
	"context"
	"log"
	"time"

	"tidemark/internal/util"

	"github.com/jmoiron/sqlx"
)

// currentDataMigrationVersion is bumped whenever a new one-time data task
// is added below. The version reached is stored in the DataMigration table
// so a task never runs twice.
const currentDataMigrationVersion = 1

// RunDataMigrations runs the one-time data tasks that schema migrations
// cannot express, currently only the initial rating cache backfill. The
// whole thing is bounded by the caller's context: on timeout nothing is
// marked done and the task is retried on the next start, which is safe
// because every task is a pure recomputation.
func (b *Back) RunDataMigrations(ctx context.Context) error {
	version, err := b.dataMigrationVersion()
	if err != nil {
		return err
	}

	if version >= currentDataMigrationVersion {
		return nil
	}

	log.Printf("info: running data migrations %d -> %d", version, currentDataMigrationVersion)

	done := make(chan error, 1)
	go func() {
		// v1: backfill the PlayerRating cache and player counters, both
		// are just a replay of the log.
		done <- b.Rerate()
	}()

	select {
	case <-ctx.Done():
		log.Printf("warning: data migration interrupted, will retry on next start: %s", ctx.Err())
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return err
		}
	}

	return b.transaction(func(tx *sqlx.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO DataMigration (Version, AppliedAt) VALUES (?, ?)`,
			currentDataMigrationVersion,
			util.TimeAsTimestamp(time.Now()),
		)
		return err
	})
}

func (b *Back) dataMigrationVersion() (int, error) {
	var version int
	if err := b.transaction(func(tx *sqlx.Tx) error {
		return tx.Get(&version, `SELECT COALESCE(MAX(Version), 0) FROM DataMigration`)
	}); err != nil {
		return 0, err
	}

	return version, nil
}
