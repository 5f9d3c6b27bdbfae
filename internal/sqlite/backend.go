// Package sqlite implements the persistence backend for the attribute
// engine. JSONL files in the data directory are the source of truth; SQLite
// is rebuilt from them on Attach and serves as the query engine.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

const dbFileName = "gnft.db"

const settingLedgerOwner = "ledger_owner"

// Backend stores engine, ledger and grant state.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.SugaredLogger
}

// NewBackend creates a detached backend. logger may be nil.
func NewBackend(logger *zap.SugaredLogger) *Backend {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Backend{logger: logger.With("component", "sqlite")}
}

// Attach creates DataDir if needed, builds a fresh SQLite database from the
// JSONL files there and marks the backend ready.
// Returns ErrBackendAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrBackendAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	config = config.WithDefaults()
	dataDir := config.DataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating data dir %s", dataDir)
	}

	// The database is a cache of the JSONL files and is rebuilt every time.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return errors.Wrap(err, "opening sqlite")
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return errors.Wrap(err, "load JSONL")
	}

	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debugw("backend attached", "data_dir", dataDir)
	return nil
}

// Detach closes the database. It is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return errors.Wrap(err, "closing sqlite")
		}
		b.db = nil
	}
	b.attached = false
	b.logger.Debugw("backend detached")
	return nil
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return errors.Wrap(err, "creating schema")
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return errors.Wrap(err, "creating index")
		}
	}
	return nil
}

// Save replaces every table with st. SQLite is updated in one transaction
// first; the JSONL files are rewritten only after it commits, so a failed
// save leaves the source of truth untouched.
func (b *Backend) Save(st types.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrBackendDetached
	}

	files, err := encodeState(st)
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning save transaction")
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		if err := replaceTable(tx, mapping.table, mapping.columns, files[mapping.file]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing save transaction")
	}

	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(b.config.DataDir, mapping.file)
		if err := writeJSONL(path, files[mapping.file]); err != nil {
			return errors.Wrapf(err, "persisting %s", mapping.file)
		}
	}
	b.logger.Debugw("state saved",
		"assets", len(st.Ledger.Assets), "events", len(st.Engine.Events), "grants", len(st.Grants))
	return nil
}

// replaceTable deletes every row of table and inserts records.
func replaceTable(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return errors.Wrapf(err, "clearing %s", table)
	}
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(insertSQL(table, columns))
	if err != nil {
		return errors.Wrapf(err, "preparing insert for %s", table)
	}
	defer stmt.Close()

	for i, rec := range records {
		obj, err := decodeRecord(rec)
		if err != nil {
			return errors.Wrapf(err, "decoding %s record %d", table, i)
		}
		if _, err := stmt.Exec(recordArgs(obj, columns)...); err != nil {
			return errors.Wrapf(err, "inserting %s record %d", table, i)
		}
	}
	return nil
}

// Load reads the full state back out of SQLite.
func (b *Backend) Load() (types.State, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.State{}, types.ErrBackendDetached
	}
	return loadState(b.db)
}

// EventFilter narrows an event query. Zero fields match everything.
type EventFilter struct {
	AssetID  types.AssetID
	Behavior types.Behavior
	Kind     string
	Limit    int
}

// Events queries the persisted journal in recording order.
func (b *Backend) Events(f EventFilter) ([]types.Event, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return queryEvents(b.db, f)
}
