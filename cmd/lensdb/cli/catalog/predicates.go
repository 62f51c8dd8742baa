package catalog

import (
	"fmt"

	"github.com/mwantia/lensdb/cmd/lensdb/cli/render"
	"github.com/mwantia/lensdb/pkg/query"
	"github.com/spf13/cobra"
)

func NewPredicatesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "predicates",
		Short: "List the available search predicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := query.Default().Definitions()

			if asJSON {
				type predicate struct {
					Name       string           `json:"name"`
					Kind       query.Kind       `json:"kind"`
					Unit       query.Unit       `json:"unit"`
					Comparator query.Comparator `json:"comparator"`
					Prefix     string           `json:"prefix"`
					Suffix     string           `json:"suffix"`
				}

				out := make([]predicate, 0, len(defs))
				for _, def := range defs {
					out = append(out, predicate{def.Name, def.Kind, def.Unit, def.Comparator, def.Prefix, def.Suffix})
				}
				return render.JSON(cmd.OutOrStdout(), out)
			}

			table := render.NewTable("Name", "Kind", "Unit", "Test", "Label")
			for _, def := range defs {
				label := def.Prefix
				if def.Kind == query.Numeric {
					label = def.Prefix + "<value>" + def.Suffix
				}
				table.AddRow(def.Name, def.Kind.String(), def.Unit.String(), string(def.Comparator), label)
			}

			_, err := fmt.Fprint(cmd.OutOrStdout(), table.String())
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print predicates as JSON")

	return cmd
}
