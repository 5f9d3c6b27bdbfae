// Package attribute implements the four attribute behaviors: Generic
// (plain counter), Upgradable (single-step level ladder), Transferable
// (value relocated between assets through approve/transferFrom) and
// Evolutive (stages gated on ticks accumulated since attach).
//
// Each module owns a Catalog of definitions and a Store of attachments and
// serializes every call with one lock. Mutating calls take a
// types.Capability; authorization and argument checks run before any state
// is read, and every check runs before the first write, so a failing call
// leaves the module unchanged.
package attribute
