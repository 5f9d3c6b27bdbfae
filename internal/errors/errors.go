// Package errors re-exports github.com/cockroachdb/errors so the rest of the
// module builds, wraps and inspects errors through one import.
//
// Usage:
//
//	if err := store.Save(state); err != nil {
//	    return errors.Wrap(err, "saving engine state")
//	}
//
//	if errors.Is(err, types.ErrNotAttached) {
//	    // handle missing attachment
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping.
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing hints and details.
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	FlattenHints  = crdb.FlattenHints
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
)

// Inspection.
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions for conditions that indicate a bug rather than bad input.
var (
	AssertionFailedf = crdb.AssertionFailedf
)
