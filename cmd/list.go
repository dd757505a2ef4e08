package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/services"
	"github.com/memendex/mx/pkg/ui"
)

var (
	listPage int
	listSize int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List one page of the catalog",
	Aliases: []string{"ls"},
	Long: `List one page of the catalog in a table.

Examples:
  mx list
  mx list --page 3
  mx list --page 2 --size 50`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page number (1-based)")
	listCmd.Flags().IntVarP(&listSize, "size", "s", 0, "Page size (defaults to page_size from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	collection := collectionService
	if listSize > 0 {
		collection = services.NewCollectionService(catalogClient, listSize)
	}

	// The page and the thumbnail capabilities are independent requests
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return collection.GoToPage(gctx, listPage)
	})
	g.Go(func() error {
		capabilityService.Resolve(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return reportError(ctx, "list the catalog", err)
	}

	env := collection.Envelope()
	if len(env.Data) == 0 {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("No items on page %d", env.DisplayPage())))
		if env.DisplayPage() == 1 {
			fmt.Println(ui.FormatInfo("Upload your first item with: mx upload --file meme.png"))
		}
		return nil
	}

	fmt.Println(ui.FormatTitle("Catalog"))
	fmt.Println()
	printItems(env)
	return nil
}

// printItems renders a page as a table followed by the pager line
func printItems(env *domain.ItemPage) {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "", Width: 2},
		{Header: "Description", Width: 48},
		{Header: "Tags", Width: 30},
		{Header: "Ext", Width: 5},
		{Header: "", Width: 1},
	})

	for _, item := range env.Data {
		thumb := ""
		if capabilityService.HasThumbnail(item) {
			thumb = ui.IconThumb
		}
		table.AddRow([]string{
			strconv.FormatInt(item.ID, 10),
			ui.KindIcon(item.Kind),
			item.Title(),
			item.GetTagsString(),
			domain.IconExtension(item),
			thumb,
		})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%s · %d shown", ui.PagerLabel(env), len(env.Data))))
}
