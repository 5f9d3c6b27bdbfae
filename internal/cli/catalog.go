package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// catalogFile is the YAML layout accepted by "catalog load".
//
//	attributes:
//	  - attribute_id: 20004
//	    behavior: evolutive
//	    name: Bloom
//	    stage_thresholds: [0, 80, 200]
//	    stage_values: [1, 2, 3]
type catalogFile struct {
	Attributes []types.Definition `yaml:"attributes"`
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and bulk-load attribute definitions",
	}
	cmd.AddCommand(newCatalogListCmd())
	cmd.AddCommand(newCatalogLoadCmd())
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	var behavior string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attribute definitions across modules",
		Args:  cobra.NoArgs,
		RunE: sessionRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			var only types.Behavior
			if behavior != "" {
				b, err := parseBehavior(behavior)
				if err != nil {
					return err
				}
				only = b
			}
			var defs []*types.Definition
			for _, d := range s.engine.Definitions() {
				if only == "" || d.Behavior == only {
					defs = append(defs, d)
				}
			}
			if flags.jsonMode {
				return printJSON(cmd, defs)
			}
			rows := make([][]string, 0, len(defs))
			for _, d := range defs {
				rows = append(rows, []string{d.AttributeID.String(), string(d.Behavior), d.Name, definitionDetail(d)})
			}
			return printTable(cmd, []string{"ATTR", "BEHAVIOR", "NAME", "DETAIL"}, rows)
		}),
	}
	cmd.Flags().StringVar(&behavior, "behavior", "", "only list this behavior")
	return cmd
}

func definitionDetail(d *types.Definition) string {
	switch d.Behavior {
	case types.BehaviorUpgradable:
		return fmt.Sprintf("max level %d, ladder %d", d.MaxLevel, d.LadderParam)
	case types.BehaviorEvolutive:
		stages := make([]string, len(d.StageThresholds))
		for i := range d.StageThresholds {
			stages[i] = fmt.Sprintf("%d@%d", d.StageValues[i], d.StageThresholds[i])
		}
		return "stages " + strings.Join(stages, " ")
	default:
		return fmt.Sprintf("decimals %d", d.Decimals)
	}
}

func newCatalogLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.yaml>",
		Short: "Create every attribute listed in a YAML file",
		Long: "Create every attribute listed in a YAML file. Loading stops at the first\n" +
			"definition that fails and nothing from the file is saved.",
		Args: cobra.ExactArgs(1),
		RunE: sessionRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			defs, err := readCatalogFile(args[0])
			if err != nil {
				return err
			}
			for i := range defs {
				if err := s.engine.Define(s.op, &defs[i]); err != nil {
					return errors.Wrapf(err, "attribute %d (entry %d)", defs[i].AttributeID, i+1)
				}
			}
			return printResult(cmd, map[string]int{"created": len(defs)},
				fmt.Sprintf("Loaded %d attributes from %s", len(defs), args[0]))
		}),
	}
}

func readCatalogFile(path string) ([]types.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, usageErrorf("parse %s: %v", path, err)
	}
	if len(f.Attributes) == 0 {
		return nil, usageErrorf("%s lists no attributes", path)
	}
	return f.Attributes, nil
}
