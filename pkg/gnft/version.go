// Package gnft holds module-wide metadata.
package gnft

// Version is the release version of the gnft module and CLI.
const Version = "0.3.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/DRepublic-io/gNFT"
