// Package types defines the entity types, collaborator interfaces and
// standard errors for the gNFT attribute engine.
//
// Entities carry their own state transitions (Attachment.Increase,
// Attachment.Upgrade, Attachment.Evolve); the modules in internal/attribute
// call them under their lock and own persistence of the result.
package types
