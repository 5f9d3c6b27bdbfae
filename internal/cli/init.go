package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DRepublic-io/gNFT/internal/auth"
	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/internal/ledger"
	"github.com/DRepublic-io/gNFT/internal/sqlite"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

func newInitCmd() *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize gnft storage",
		Long: "Create the configuration and data directories, make the account the ledger\n" +
			"owner and issue it an operator token. Running init again is a no-op.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, account)
		},
	}
	cmd.Flags().StringVar(&account, "account", defaultAccount, "account that owns the ledger and operates attributes")
	return cmd
}

func runInit(cmd *cobra.Command, account string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	if configExists(configDir) {
		fmt.Fprintln(cmd.OutOrStdout(), "gnft already initialized in", configDir)
		return nil
	}
	if account == "" {
		return usageErrorf("--account must not be empty")
	}
	dataDir, err := resolveDataDir("")
	if err != nil {
		return err
	}

	backend := sqlite.NewBackend(nil)
	if err := backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		return errors.Wrap(err, "initialize storage")
	}
	defer backend.Detach()

	authority := auth.New()
	grant, err := authority.Grant(account)
	if err != nil {
		return err
	}
	st := types.State{
		Ledger: ledger.New(types.Account(account), nil).Snapshot(),
		Grants: authority.Grants(),
	}
	if err := backend.Save(st); err != nil {
		return errors.Wrap(err, "write initial state")
	}

	err = writeConfig(configDir, configFile{
		Backend:       types.BackendSQLite,
		DataDir:       dataDir,
		Account:       account,
		OperatorToken: grant.Token,
	})
	if err != nil {
		return err
	}

	if flags.jsonMode {
		return printJSON(cmd, map[string]string{
			"config_dir":     configDir,
			"data_dir":       dataDir,
			"account":        account,
			"operator_token": grant.Token,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "gnft initialized")
	fmt.Fprintln(out, "  config:  ", configDir)
	fmt.Fprintln(out, "  data:    ", dataDir)
	fmt.Fprintln(out, "  account: ", account)
	return nil
}
