package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

func newAttrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attr",
		Short: "Define attributes and operate on attachments",
	}
	cmd.AddCommand(newAttrCreateCmd())
	cmd.AddCommand(newAttrAttachCmd())
	cmd.AddCommand(newAttrDetachCmd())
	cmd.AddCommand(newAttrShowCmd())
	cmd.AddCommand(newAttrCounterCmd(types.EventIncrease, "Add to a generic attribute's value"))
	cmd.AddCommand(newAttrCounterCmd(types.EventDecrease, "Subtract from a generic attribute's value"))
	cmd.AddCommand(newAttrUpgradeCmd())
	cmd.AddCommand(newAttrApproveCmd())
	cmd.AddCommand(newAttrTransferCmd())
	cmd.AddCommand(newAttrEvolveCmd())
	return cmd
}

func newAttrCreateCmd() *cobra.Command {
	var (
		desc       string
		decimals   uint8
		maxLevel   uint32
		ladder     uint64
		thresholds []string
		values     []string
	)
	cmd := &cobra.Command{
		Use:   "create <behavior> <attr> <name>",
		Short: "Add an attribute definition to a module's catalog",
		Long: `Add an attribute definition to the catalog of the module for <behavior>
(generic, upgradable, transferable or evolutive).

Upgradable attributes need --max-level. Evolutive attributes need matching
--thresholds and --values lists, one entry per stage.`,
		Args: cobra.ExactArgs(3),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			b, err := parseBehavior(args[0])
			if err != nil {
				return err
			}
			id, err := parseAttr(args[1])
			if err != nil {
				return err
			}
			def := &types.Definition{
				AttributeID: id,
				Behavior:    b,
				Name:        args[2],
				Description: desc,
				Decimals:    decimals,
				MaxLevel:    maxLevel,
				LadderParam: ladder,
			}
			if def.StageThresholds, err = parseAmounts(thresholds); err != nil {
				return err
			}
			if def.StageValues, err = parseAmounts(values); err != nil {
				return err
			}
			if err := s.engine.Define(s.op, def); err != nil {
				return err
			}
			return printResult(cmd, def, fmt.Sprintf("Created %s attribute %d (%s)", b, id, def.Name))
		}),
	}
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().Uint8Var(&decimals, "decimals", 0, "display decimals (generic, transferable)")
	cmd.Flags().Uint32Var(&maxLevel, "max-level", 0, "number of levels (upgradable)")
	cmd.Flags().Uint64Var(&ladder, "ladder", 0, "ladder parameter (upgradable)")
	cmd.Flags().StringSliceVar(&thresholds, "thresholds", nil, "cumulative ticks per stage (evolutive)")
	cmd.Flags().StringSliceVar(&values, "values", nil, "value held in each stage (evolutive)")
	return cmd
}

func newAttrAttachCmd() *cobra.Command {
	var value uint64
	cmd := &cobra.Command{
		Use:   "attach <asset> <attr>",
		Short: "Attach an attribute instance to an asset",
		Args:  cobra.ExactArgs(2),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			asset, attr, b, err := attachmentArgs(s, args[0], args[1], "")
			if err != nil {
				return err
			}
			switch b {
			case types.BehaviorGeneric:
				err = s.engine.Generic.Attach(s.op, asset, attr, value)
			case types.BehaviorUpgradable:
				err = s.engine.Upgradable.Attach(s.op, asset, attr)
			case types.BehaviorTransferable:
				err = s.engine.Transferable.Attach(s.op, asset, attr, value)
			case types.BehaviorEvolutive:
				err = s.engine.Evolutive.Attach(s.op, asset, attr)
			}
			if err != nil {
				return err
			}
			return showAttachment(cmd, s, b, asset, attr, fmt.Sprintf("Attached %d to asset %d", attr, asset))
		}),
	}
	cmd.Flags().Uint64Var(&value, "value", 0, "initial value (generic, transferable)")
	cmd.Flags().Uint64Var(&flagTick, "tick", 0, "current tick, anchors evolutive attachments")
	addBehaviorFlag(cmd)
	return cmd
}

// flagTick is the --tick value fed to the engine's tick source.
var flagTick uint64

// flagBehavior picks the module when an attribute id is defined in more
// than one catalog.
var flagBehavior string

func addBehaviorFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagBehavior, "behavior", "", "module holding the attribute, when its id is defined in several")
}

func newAttrDetachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detach <asset> <attr>",
		Short: "Remove an attribute instance from an asset",
		Args:  cobra.ExactArgs(2),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			asset, attr, b, err := attachmentArgs(s, args[0], args[1], "")
			if err != nil {
				return err
			}
			m, err := s.engine.Module(b)
			if err != nil {
				return err
			}
			if err := m.Detach(s.op, asset, attr); err != nil {
				return err
			}
			return printResult(cmd, map[string]uint64{"asset_id": uint64(asset), "attribute_id": uint64(attr)},
				fmt.Sprintf("Detached %d from asset %d", attr, asset))
		}),
	}
	addBehaviorFlag(cmd)
	return cmd
}

func newAttrShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <asset>",
		Short: "List the attributes attached to an asset",
		Args:  cobra.ExactArgs(1),
		RunE: sessionRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			asset, err := parseAsset(args[0])
			if err != nil {
				return err
			}
			holdings := s.engine.Attachments(asset)
			if flags.jsonMode {
				return printJSON(cmd, holdings)
			}
			if len(holdings) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Asset %d has no attributes\n", asset)
				return nil
			}
			rows := make([][]string, 0, len(holdings))
			for _, h := range holdings {
				rows = append(rows, []string{
					string(h.Behavior), h.AttributeID.String(), h.Name,
					u64(h.Value), u64(uint64(h.Level)), u64(uint64(h.Stage)),
				})
			}
			return printTable(cmd, []string{"BEHAVIOR", "ATTR", "NAME", "VALUE", "LEVEL", "STAGE"}, rows)
		}),
	}
}

// newAttrCounterCmd builds "increase" or "decrease" for generic attributes.
func newAttrCounterCmd(kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <asset> <attr> <delta>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			asset, attr, b, err := attachmentArgs(s, args[0], args[1], types.BehaviorGeneric)
			if err != nil {
				return err
			}
			delta, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			if kind == types.EventIncrease {
				err = s.engine.Generic.Increase(s.op, asset, attr, delta)
			} else {
				err = s.engine.Generic.Decrease(s.op, asset, attr, delta)
			}
			if err != nil {
				return err
			}
			v, err := s.engine.Generic.AttributeValue(asset, attr)
			if err != nil {
				return err
			}
			return showAttachment(cmd, s, b, asset, attr, u64(v))
		}),
	}
}

func newAttrUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <asset> <attr> <level>",
		Short: "Raise an upgradable attribute to a higher level",
		Args:  cobra.ExactArgs(3),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			asset, attr, b, err := attachmentArgs(s, args[0], args[1], types.BehaviorUpgradable)
			if err != nil {
				return err
			}
			level, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return usageErrorf("level %q is not a 32-bit unsigned integer", args[2])
			}
			if err := s.engine.Upgradable.UpgradeLevel(s.op, asset, attr, uint32(level)); err != nil {
				return err
			}
			return showAttachment(cmd, s, b, asset, attr, fmt.Sprintf("Asset %d attribute %d now at level %d", asset, attr, level))
		}),
	}
}

func newAttrApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <from-asset> <to-asset> <attr>",
		Short: "Approve moving a transferable attribute to another asset",
		Args:  cobra.ExactArgs(3),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			from, to, attr, err := transferArgs(s, args)
			if err != nil {
				return err
			}
			if err := s.engine.Transferable.Approve(s.op, from, to, attr); err != nil {
				return err
			}
			return printResult(cmd, map[string]uint64{"from": uint64(from), "to": uint64(to), "attribute_id": uint64(attr)},
				fmt.Sprintf("Approved %d from asset %d to asset %d", attr, from, to))
		}),
	}
}

func newAttrTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from-asset> <to-asset> <attr>",
		Short: "Move an approved transferable attribute's value to another asset",
		Args:  cobra.ExactArgs(3),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			from, to, attr, err := transferArgs(s, args)
			if err != nil {
				return err
			}
			if err := s.engine.Transferable.TransferFrom(s.op, from, to, attr); err != nil {
				return err
			}
			return showAttachment(cmd, s, types.BehaviorTransferable, to, attr,
				fmt.Sprintf("Transferred %d from asset %d to asset %d", attr, from, to))
		}),
	}
}

func newAttrEvolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evolve <asset> <attr> <ticks>",
		Short: "Advance an evolutive attribute to the stage reached at ticks",
		Args:  cobra.ExactArgs(3),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			asset, attr, b, err := attachmentArgs(s, args[0], args[1], types.BehaviorEvolutive)
			if err != nil {
				return err
			}
			ticks, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			if err := s.engine.Evolutive.Evolutive(s.op, asset, attr, ticks); err != nil {
				return err
			}
			stage, err := s.engine.Evolutive.Stage(asset, attr)
			if err != nil {
				return err
			}
			return showAttachment(cmd, s, b, asset, attr, fmt.Sprintf("Asset %d attribute %d at stage %d", asset, attr, stage))
		}),
	}
}

// attachmentArgs parses an asset and attribute and resolves the module
// holding the attribute. want is the behavior the command operates on, or
// empty when any behavior will do.
func attachmentArgs(s *session, assetArg, attrArg string, want types.Behavior) (types.AssetID, types.AttributeID, types.Behavior, error) {
	s.tick = flagTick
	asset, err := parseAsset(assetArg)
	if err != nil {
		return 0, 0, "", err
	}
	attr, err := parseAttr(attrArg)
	if err != nil {
		return 0, 0, "", err
	}
	b, err := resolveBehavior(s, attr, want)
	if err != nil {
		return 0, 0, "", err
	}
	return asset, attr, b, nil
}

func transferArgs(s *session, args []string) (from, to types.AssetID, attr types.AttributeID, err error) {
	if from, err = parseAsset(args[0]); err != nil {
		return
	}
	if to, err = parseAsset(args[1]); err != nil {
		return
	}
	if attr, err = parseAttr(args[2]); err != nil {
		return
	}
	_, err = resolveBehavior(s, attr, types.BehaviorTransferable)
	return
}

// resolveBehavior finds the module whose catalog holds attr. Catalogs are
// per module, so one id may be defined under several behaviors; then the
// command's own behavior or --behavior must pick one.
func resolveBehavior(s *session, attr types.AttributeID, want types.Behavior) (types.Behavior, error) {
	var held []types.Behavior
	for _, def := range s.engine.Definitions() {
		if def.AttributeID == attr {
			held = append(held, def.Behavior)
		}
	}
	if len(held) == 0 {
		return "", errors.WithHint(errors.Wrapf(types.ErrNotFound, "attribute %d", attr),
			"run 'gnft catalog list' to see defined attributes")
	}

	if flagBehavior != "" {
		b, err := parseBehavior(flagBehavior)
		if err != nil {
			return "", err
		}
		if want != "" && b != want {
			return "", usageErrorf("--behavior %s conflicts with a %s command", b, want)
		}
		want = b
	}
	if want != "" {
		if slices.Contains(held, want) {
			return want, nil
		}
		return "", behaviorMismatch(attr, held, want)
	}
	if len(held) == 1 {
		return held[0], nil
	}
	return "", errors.WithHintf(usageErrorf("attribute %d is defined as %v", attr, held),
		"pass --behavior to pick one")
}

func behaviorMismatch(attr types.AttributeID, held []types.Behavior, want types.Behavior) error {
	if len(held) == 1 {
		return usageErrorf("attribute %d is %s, not %s", attr, held[0], want)
	}
	return usageErrorf("attribute %d is defined as %v, not %s", attr, held, want)
}

// showAttachment prints the attachment in --json mode and msg otherwise.
func showAttachment(cmd *cobra.Command, s *session, b types.Behavior, asset types.AssetID, attr types.AttributeID, msg string) error {
	if !flags.jsonMode {
		return printResult(cmd, nil, msg)
	}
	m, err := s.engine.Module(b)
	if err != nil {
		return err
	}
	for _, a := range m.AttachmentsOf(asset) {
		if a.AttributeID == attr {
			return printJSON(cmd, a)
		}
	}
	return printJSON(cmd, nil)
}

func parseAmounts(ss []string) ([]uint64, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]uint64, 0, len(ss))
	for _, s := range ss {
		v, err := parseAmount(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
