// Package cli implements the gnft command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/internal/paths"
	"github.com/DRepublic-io/gNFT/pkg/gnft"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "gnft" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "gnft",
		Short:   "Attach, evolve and move attributes on ledger assets",
		Long:    "gnft manages a multi-asset ledger and the attributes attached to its assets:\ngeneric counters, upgradable levels, transferable values and evolutive stages.",
		Version: gnft.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .gnft)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .gnft-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAssetCmd())
	root.AddCommand(newAttrCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newEventsCmd())

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})
	markArgErrors(root)
	return root
}

// markArgErrors wraps every positional-argument validator in the tree so
// its failures count as usage errors.
func markArgErrors(cmd *cobra.Command) {
	if validate := cmd.Args; validate != nil {
		cmd.Args = func(c *cobra.Command, args []string) error {
			if err := validate(c, args); err != nil {
				return usageErrorf("%v", err)
			}
			return nil
		}
	}
	for _, sub := range cmd.Commands() {
		markArgErrors(sub)
	}
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "error:", err)
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintln(stderr, "hint:", h)
	}
	return exitCode(err)
}

// userErrors are failures caused by the request rather than the system.
var userErrors = []error{
	types.ErrNotFound, types.ErrAlreadyExists, types.ErrNotAttached, types.ErrAlreadyAttached,
	types.ErrInvalidLevel, types.ErrUnderflow, types.ErrOverflow, types.ErrNotApproved,
	types.ErrUnknownAsset, types.ErrSameAsset, types.ErrInvalidDefinition, types.ErrInvalidBehavior,
	types.ErrUnauthorized, types.ErrInvalidID,
	types.ErrAssetExists, types.ErrInsufficientBalance, types.ErrInvalidAccount, types.ErrInvalidAmount,
	errUsage,
}

// errUsage marks malformed command input.
var errUsage = errors.New("invalid usage")

func exitCode(err error) int {
	if errors.IsAny(err, userErrors...) {
		return exitUserError
	}
	return exitSysError
}

// usageErrorf wraps errUsage with a message.
func usageErrorf(format string, args ...any) error {
	return errors.Wrapf(errUsage, format, args...)
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flags.configDir)
}

// resolveDataDir returns the data directory from flag, config, env, or
// default.
func resolveDataDir(configValue string) (string, error) {
	return paths.ResolveDataDir(flags.dataDir, configValue)
}
