package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwantia/lensdb/cmd/lensdb/cli/render"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/query"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type queryResult struct {
	Queries  []activeQuery `json:"queries"`
	Query    string        `json:"query"`
	ShareURL string        `json:"share_url"`
	Total    int           `json:"total"`
	Matched  int           `json:"matched"`
	Lenses   []lens.Record `json:"lenses"`
}

type activeQuery struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Label string `json:"label"`
}

func NewQueryCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query [Name=value...]",
		Short: "Filter the lens collection",
		Long: `Filter the lens collection with one or more predicates.

Each argument is a predicate name and value, e.g. MaxWeight=300. Boolean
predicates may be given without a value, e.g. IsDripProof. A later argument
replaces an earlier one with the same name. Run 'lensdb predicates' for
the full list.`,
		Example: "  lensdb query MaxWeight=300 MaxWideMinFocusDistance=0.2 IsDripProof",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := BuildSet(query.Default(), args)
			if err != nil {
				return err
			}

			records, err := loadRecords(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			matched := query.Apply(records, set)
			result := queryResult{
				Queries:  make([]activeQuery, 0, set.Len()),
				Query:    query.EncodeQuery(set),
				ShareURL: query.ShareURL(viper.GetString("http.public_url"), set),
				Total:    len(records),
				Matched:  len(matched),
				Lenses:   matched,
			}
			for _, q := range set.Queries() {
				result.Queries = append(result.Queries, activeQuery{q.Name(), query.FormatValue(q), query.Label(q)})
			}

			if asJSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			for _, q := range result.Queries {
				fmt.Fprintf(out, "- %s\n", q.Label)
			}
			fmt.Fprint(out, lensTable(matched).String())
			fmt.Fprintf(out, "%d of %d lenses\n", result.Matched, result.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// BuildSet turns "Name=value" arguments into an active set.
func BuildSet(c *query.Catalog, args []string) (query.Set, error) {
	set := query.Set{}
	for _, arg := range args {
		// Boolean predicates ignore the value, so a bare name is enough.
		name, value, _ := strings.Cut(arg, "=")

		q, err := c.Build(name, value)
		if err != nil {
			return query.Set{}, err
		}
		set = set.With(q)
	}
	return set, nil
}

func lensTable(records []lens.Record) *render.Table {
	table := render.NewTable("ID", "Maker", "Name", "Focal", "F", "Min focus", "Weight", "Price")
	for _, rec := range records {
		focal := num(rec.WideFocalLength) + "mm"
		if rec.IsZoom() {
			focal = num(rec.WideFocalLength) + "-" + num(rec.TelephotoFocalLength) + "mm"
		}
		aperture := "F" + num(rec.WideFNumber)
		if rec.WideFNumber != rec.TelephotoFNumber {
			aperture += "-" + num(rec.TelephotoFNumber)
		}

		table.AddRow(
			strconv.Itoa(rec.ID),
			rec.Maker,
			rec.Name,
			focal,
			aperture,
			num(rec.WideMinFocusDistance/1000)+"m",
			num(rec.Weight)+"g",
			num(rec.Price)+"円",
		)
	}
	return table
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
