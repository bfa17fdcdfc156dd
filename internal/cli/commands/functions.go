package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlframe/internal/cli/output"
	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var functionCategories = []string{"aggregate", "window", "scalar"}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "functions",
		Aliases: []string{"fn"},
		Short:   "List the built-in SQL functions",
		Long: `List the SQL functions available to scripts through the "fn" module.

Names are shown the way scripts call them, e.g. fn.count(col("id")).`,
		Example: `  sqlframe functions
  sqlframe functions --category aggregate
  sqlframe functions --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if category != "" && !slices.Contains(functionCategories, category) {
				return fmt.Errorf("invalid category %q, expected one of %s", category, strings.Join(functionCategories, ", "))
			}
			c, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runFunctions(c.Renderer, category)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list one category (aggregate, window, scalar)")
	_ = cmd.RegisterFlagCompletionFunc("category", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return functionCategories, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func listFunctions(category string) []output.FunctionInfo {
	var infos []output.FunctionInfo
	for _, def := range core.Funcs() {
		if category != "" && def.Category() != category {
			continue
		}
		args := make([]string, len(def.Args))
		for i, a := range def.Args {
			args[i] = strings.ToLower(a)
		}
		infos = append(infos, output.FunctionInfo{
			Name:      strings.ToLower(def.Symbol),
			Args:      args,
			Aggregate: def.Aggregate,
			Category:  def.Category(),
		})
	}
	return infos
}

func runFunctions(r *output.Renderer, category string) error {
	infos := listFunctions(category)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	title := cases.Title(language.English)
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			fmt.Sprintf("fn.%s(%s)", info.Name, strings.Join(info.Args, ", ")),
			title.String(info.Category),
		})
	}

	r.Header(2, fmt.Sprintf("Functions (%d)", len(infos)))
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println()
	}
	r.Table([]string{"Call", "Category"}, rows)
	return nil
}
