// Command gnft manages ledger assets and the attributes attached to them.
package main

import "github.com/DRepublic-io/gNFT/internal/cli"

func main() {
	cli.Execute()
}
