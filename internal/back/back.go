// Package back holds the match log models, the rating replay engine, the
// analytics aggregators, and the match edit controller.
//
// The SQLite database is the single source of truth, everything rating
// related is a pure function of the ordered match log and can be rebuilt
// from it at any time.
package back

import (
	"fmt"

	"tidemark/internal/hero"

	"github.com/jmoiron/sqlx"
)

type Back struct {
	db     *sqlx.DB
	heroes hero.Catalog
}

func New(sqlDriver string, sqlDSN string, heroes hero.Catalog) (*Back, error) {
	// Why even bother converting names? A single greppable string across all
	// your source code is better than any odd conversion scheme you could
	// ever come up with.
	// HACK: This is global but putting this in init() makes test ugly.
	// As only the Back relies on the DB, this seems like an okay-ish place.
	sqlx.NameMapper = func(v string) string { return v }

	db, err := sqlx.Connect(sqlDriver, sqlDSN)
	if err != nil {
		return nil, err
	}

	return &Back{
		db:     db,
		heroes: heroes,
	}, nil
}

// Heroes returns the injected hero catalog.
func (b *Back) Heroes() hero.Catalog {
	return b.heroes
}

type transactionCallback func(*sqlx.Tx) error

func (b *Back) transaction(cb transactionCallback) error {
	tx, err := b.db.Beginx()
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("rollback error: %s\noriginal error: %s", err2, err)
		}

		return err
	}

	return tx.Commit()
}
