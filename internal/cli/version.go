package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DRepublic-io/gNFT/pkg/gnft"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gnft version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(cmd,
				map[string]string{"version": gnft.Version, "module": gnft.ModulePath},
				fmt.Sprintf("gnft v%s\nmodule: %s", gnft.Version, gnft.ModulePath))
		},
	}
}
