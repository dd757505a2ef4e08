package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/memendex/mx/pkg/ui"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search the catalog",
	Aliases: []string{"s", "find"},
	Long: `Search descriptions, file names and tags on the server.

Queries need at least 3 characters. The server decides how many results
are returned; search results are not paginated.

Examples:
  mx search cats
  mx search "#reaction"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	query := strings.Join(args, " ")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return collectionService.Search(gctx, query)
	})
	g.Go(func() error {
		capabilityService.Resolve(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return reportError(ctx, "search", err)
	}

	env := collectionService.Envelope()
	if len(env.Data) == 0 {
		fmt.Println(ui.FormatWarning("No items found matching: " + query))
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Results for %q", query)))
	fmt.Println()
	printItems(env)
	return nil
}
