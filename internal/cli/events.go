package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/DRepublic-io/gNFT/internal/sqlite"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

func newEventsCmd() *cobra.Command {
	var (
		asset    string
		behavior string
		kind     string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the attribute event journal",
		Args:  cobra.NoArgs,
		RunE: sessionRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			f := sqlite.EventFilter{Kind: kind, Limit: limit}
			if asset != "" {
				id, err := parseAsset(asset)
				if err != nil {
					return err
				}
				f.AssetID = id
			}
			if behavior != "" {
				b, err := parseBehavior(behavior)
				if err != nil {
					return err
				}
				f.Behavior = b
			}
			if limit < 0 {
				return usageErrorf("--limit must not be negative")
			}
			events, err := s.backend.Events(f)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				if events == nil {
					events = []types.Event{}
				}
				return printJSON(cmd, events)
			}
			rows := make([][]string, 0, len(events))
			for _, e := range events {
				cp := ""
				if e.Counterparty.Valid() {
					cp = e.Counterparty.String()
				}
				rows = append(rows, []string{
					e.CreatedAt.Format(time.RFC3339), e.Kind, string(e.Behavior),
					e.AssetID.String(), e.AttributeID.String(), cp, u64(e.Value),
				})
			}
			return printTable(cmd, []string{"TIME", "KIND", "BEHAVIOR", "ASSET", "ATTR", "OTHER", "VALUE"}, rows)
		}),
	}
	cmd.Flags().StringVar(&asset, "asset", "", "only events touching this asset")
	cmd.Flags().StringVar(&behavior, "behavior", "", "only events from this behavior")
	cmd.Flags().StringVar(&kind, "kind", "", "only events of this kind (attach, transfer, ...)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events (0 for all)")
	return cmd
}
