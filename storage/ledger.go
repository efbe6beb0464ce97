// Package storage selects the ledger store backing attendance.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/attendance"
	"github.com/akademflow/backend/storage/database"
	inmemdb "github.com/akademflow/backend/storage/inmem"
	sheetstore "github.com/akademflow/backend/storage/sheets"
)

const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

func noop() error { return nil }

// OpenLedger opens the ledger store selected by conf.Ledger.Backend. The returned func releases it.
// The postgres backend is created and migrated when needed.
func OpenLedger(ctx context.Context, conf *core.Config) (attendance.Store, func() error, error) {
	switch conf.Ledger.Backend {
	case BackendSheets, "":
		store, err := sheetstore.Open(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case BackendPostgres:
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, nil, err
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		if err = database.Migrate(db.DB, "up"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return database.NewLedgerStore(db), db.Close, nil

	case BackendMemory:
		return inmemdb.Open(), noop, nil

	default:
		return nil, nil, errors.Errorf("unknown ledger backend %q (want %s, %s or %s)",
			conf.Ledger.Backend, BackendSheets, BackendPostgres, BackendMemory)
	}
}
