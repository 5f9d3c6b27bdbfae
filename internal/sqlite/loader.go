package sqlite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DRepublic-io/gNFT/internal/errors"
)

// jsonlTableMapping maps JSONL filenames to their SQLite tables and column
// lists. Columns double as JSON field names.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{definitionsJSONL, "definitions", []string{"behavior", "attribute_id", "name", "description", "decimals", "max_level", "ladder_param", "stage_thresholds", "stage_values", "created_at"}},
	{attachmentsJSONL, "attachments", []string{"behavior", "asset_id", "attribute_id", "value", "level", "stage", "anchor_tick", "last_tick", "attached_at", "updated_at"}},
	{approvalsJSONL, "approvals", []string{"behavior", "from_asset", "attribute_id", "to_asset", "created_at"}},
	{eventsJSONL, "events", []string{"seq", "event_id", "behavior", "kind", "asset_id", "attribute_id", "counterparty", "value", "created_at"}},
	{assetsJSONL, "assets", []string{"asset_id", "creator", "uri", "supply", "created_at"}},
	{balancesJSONL, "balances", []string{"account", "asset_id", "amount"}},
	{ledgerOperatorsJSONL, "ledger_operators", []string{"owner", "operator"}},
	{grantsJSONL, "grants", []string{"name", "token", "created_at"}},
	{settingsJSONL, "settings", []string{"key", "value"}},
}

// loadAllJSONL reads each JSONL file from dataDir and inserts its records
// into the matching SQLite table. Loading is transactional: either every
// file loads or the database stays empty. Malformed lines and records that
// violate constraints are skipped; unknown fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning load transaction")
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return errors.Wrapf(err, "reading %s", mapping.file)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, records); err != nil {
			return errors.Wrapf(err, "loading %s into %s", mapping.file, mapping.table)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing load transaction")
	}
	return nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Numbers
// are decoded as json.Number so 64-bit values keep full precision, and
// arrays are stored as their JSON text.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	stmt, err := tx.Prepare(insertSQL(table, columns))
	if err != nil {
		return errors.Wrapf(err, "preparing insert for %s", table)
	}
	defer stmt.Close()

	for _, rec := range records {
		obj, err := decodeRecord(rec)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(recordArgs(obj, columns)...); err != nil {
			continue
		}
	}
	return nil
}

func decodeRecord(rec json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(rec))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// recordArgs extracts the values for columns from obj. Missing fields
// become NULL.
func recordArgs(obj map[string]any, columns []string) []any {
	args := make([]any, len(columns))
	for i, col := range columns {
		switch v := obj[col].(type) {
		case nil:
			args[i] = nil
		case json.Number:
			args[i] = v.String()
		case map[string]any, []any:
			b, err := json.Marshal(v)
			if err != nil {
				args[i] = nil
				continue
			}
			args[i] = string(b)
		default:
			args[i] = v
		}
	}
	return args
}

func insertSQL(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}
