package types

import (
	"slices"

	"github.com/DRepublic-io/gNFT/internal/errors"
)

// Config selects the persistence backend and where it keeps its files.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// BackendSQLite is the JSONL + SQLite backend.
const BackendSQLite = "sqlite"

// DefaultDataDir is used when Config.DataDir is empty.
const DefaultDataDir = "."

// Backends lists the backend names Validate accepts.
var Backends = []string{BackendSQLite}

// Validate returns ErrBackendEmpty or ErrBackendUnknown. An empty DataDir
// is valid; see WithDefaults.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !slices.Contains(Backends, c.Backend) {
		return errors.WithHintf(errors.Wrapf(ErrBackendUnknown, "%q", c.Backend),
			"supported backends: %v", Backends)
	}
	return nil
}

// WithDefaults fills in DataDir.
func (c Config) WithDefaults() Config {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	return c
}
