package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal JSON")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// printTable renders rows under header with pterm. Styling is only kept
// when the output is a terminal.
func printTable(cmd *cobra.Command, header []string, rows [][]string) error {
	if isTerminal(cmd.OutOrStdout()) {
		pterm.EnableStyling()
	} else {
		pterm.DisableStyling()
	}
	data := pterm.TableData{header}
	data = append(data, rows...)
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printResult prints v as JSON in --json mode and msg otherwise.
func printResult(cmd *cobra.Command, v any, msg string) error {
	if flags.jsonMode {
		return printJSON(cmd, v)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func u64(v uint64) string { return strconv.FormatUint(v, 10) }

func parseAsset(s string) (types.AssetID, error) {
	id, err := types.ParseAssetID(s)
	if err != nil {
		return 0, errors.Wrapf(err, "asset %q", s)
	}
	return id, nil
}

func parseAttr(s string) (types.AttributeID, error) {
	id, err := types.ParseAttributeID(s)
	if err != nil {
		return 0, errors.Wrapf(err, "attribute %q", s)
	}
	return id, nil
}

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, usageErrorf("amount %q is not an unsigned integer", s)
	}
	return v, nil
}

func parseBehavior(s string) (types.Behavior, error) {
	b, err := types.ParseBehavior(s)
	if err != nil {
		return "", errors.WithHintf(errors.Wrapf(err, "%q", s), "use one of %v", types.Behaviors)
	}
	return b, nil
}
