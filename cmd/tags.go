package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/pkg/ui"
)

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:     "tags [query]",
	Short:   "List tags and how often they are used",
	Aliases: []string{"tag"},
	Long: `List tags known to the server with their usage counts.
With a query, only tags starting with it are shown.

Examples:
  mx tags
  mx tags cat`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTags,
}

func runTags(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	usages, err := tagService.Suggest(ctx, query, nil)
	if err != nil {
		return reportError(ctx, "list tags", err)
	}

	if len(usages) == 0 {
		fmt.Println(ui.FormatWarning("No tags found"))
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("%s Tags (%d)", ui.IconTag, len(usages))))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Tag", Width: 40},
		{Header: "Items", Align: "right"},
	})
	for _, u := range usages {
		table.AddRow([]string{u.Tag, strconv.Itoa(u.Count)})
	}
	fmt.Print(table.Render())
	return nil
}
