package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DRepublic-io/gNFT/pkg/types"
)

func newAssetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage ledger assets",
	}
	cmd.AddCommand(newAssetCreateCmd())
	cmd.AddCommand(newAssetBurnCmd())
	cmd.AddCommand(newAssetTransferCmd())
	cmd.AddCommand(newAssetBalanceCmd())
	cmd.AddCommand(newAssetApproveAllCmd())
	cmd.AddCommand(newAssetListCmd())
	return cmd
}

func newAssetCreateCmd() *cobra.Command {
	var to, uri string
	cmd := &cobra.Command{
		Use:   "create <asset> <qty>",
		Short: "Mint a new asset (ledger owner only)",
		Args:  cobra.ExactArgs(2),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			asset, err := parseAsset(args[0])
			if err != nil {
				return err
			}
			qty, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			recipient := types.Account(to)
			if recipient == "" {
				recipient = s.account
			}
			if err := s.ledger.Create(s.account, recipient, asset, qty, uri); err != nil {
				return err
			}
			a, err := s.ledger.Asset(asset)
			if err != nil {
				return err
			}
			return printResult(cmd, a, fmt.Sprintf("Created asset %d (%d units to %s)", asset, qty, recipient))
		}),
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient account (default: configured account)")
	cmd.Flags().StringVar(&uri, "uri", "", "metadata URI; {id} expands to the hex asset id")
	return cmd
}

func newAssetBurnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "burn <asset> <qty>",
		Short: "Burn units of an asset; attributes are removed when supply reaches zero",
		Args:  cobra.ExactArgs(2),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			asset, err := parseAsset(args[0])
			if err != nil {
				return err
			}
			qty, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if err := s.ledger.Burn(s.account, asset, qty); err != nil {
				return err
			}
			supply := s.ledger.TotalSupply(asset)
			msg := fmt.Sprintf("Burned %d of asset %d (supply %d)", qty, asset, supply)
			if supply == 0 {
				msg += "; asset destroyed"
			}
			return printResult(cmd, map[string]uint64{"asset_id": uint64(asset), "supply": supply}, msg)
		}),
	}
}

func newAssetTransferCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "transfer <asset> <to> <qty>",
		Short: "Move units of an asset between accounts",
		Args:  cobra.ExactArgs(3),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			asset, err := parseAsset(args[0])
			if err != nil {
				return err
			}
			qty, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			src := types.Account(from)
			if src == "" {
				src = s.account
			}
			to := types.Account(args[1])
			if err := s.ledger.SafeTransferFrom(s.account, src, to, asset, qty); err != nil {
				return err
			}
			return printResult(cmd, types.Balance{Account: to, AssetID: asset, Amount: s.ledger.BalanceOf(to, asset)},
				fmt.Sprintf("Transferred %d of asset %d from %s to %s", qty, asset, src, to))
		}),
	}
	cmd.Flags().StringVar(&from, "from", "", "source account (default: configured account)")
	return cmd
}

func newAssetBalanceCmd() *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "balance <asset>",
		Short: "Show an account's balance of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: sessionRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			asset, err := parseAsset(args[0])
			if err != nil {
				return err
			}
			holder := types.Account(account)
			if holder == "" {
				holder = s.account
			}
			bal := types.Balance{Account: holder, AssetID: asset, Amount: s.ledger.BalanceOf(holder, asset)}
			return printResult(cmd, bal, u64(bal.Amount))
		}),
	}
	cmd.Flags().StringVar(&account, "account", "", "account to query (default: configured account)")
	return cmd
}

func newAssetApproveAllCmd() *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "approve-all <operator>",
		Short: "Let another account move all of your assets",
		Args:  cobra.ExactArgs(1),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			op := types.Account(args[0])
			if err := s.ledger.SetApprovalForAll(s.account, op, !revoke); err != nil {
				return err
			}
			verb := "Approved"
			if revoke {
				verb = "Revoked"
			}
			return printResult(cmd, types.OperatorApproval{Owner: s.account, Operator: op},
				fmt.Sprintf("%s %s as operator for %s", verb, op, s.account))
		}),
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "withdraw the approval instead")
	return cmd
}

func newAssetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List existing assets",
		Args:  cobra.NoArgs,
		RunE: sessionRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			assets := s.ledger.Assets()
			if flags.jsonMode {
				return printJSON(cmd, assets)
			}
			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				uri, _ := s.ledger.URI(a.AssetID)
				rows = append(rows, []string{a.AssetID.String(), u64(a.Supply), string(a.Creator), uri})
			}
			return printTable(cmd, []string{"ASSET", "SUPPLY", "CREATOR", "URI"}, rows)
		}),
	}
}
