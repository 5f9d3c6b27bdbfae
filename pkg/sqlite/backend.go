// Package sqlite provides the public constructor for the SQLite backend
// while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/DRepublic-io/gNFT/internal/sqlite"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize. logger may be nil.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".gnft-db",
//	})
//	defer backend.Detach()
func NewBackend(logger *zap.SugaredLogger) types.Backend {
	return sqlite.NewBackend(logger)
}
