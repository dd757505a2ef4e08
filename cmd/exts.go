package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/pkg/ui"
)

// extsCmd represents the exts command
var extsCmd = &cobra.Command{
	Use:   "exts",
	Short: "List the extensions the server can render thumbnails for",
	Args:  cobra.NoArgs,
	RunE:  runExts,
}

func runExts(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	set := capabilityService.Resolve(ctx)
	exts := set.List()
	sort.Strings(exts)

	if capabilityService.UsedFallback() {
		fmt.Println(ui.FormatWarning("Server did not answer, showing the built-in defaults"))
	}
	fmt.Println(ui.FormatTitle(fmt.Sprintf("Thumbnail extensions (%d)", len(exts))))
	fmt.Println()
	fmt.Print(ui.RenderSimpleList(exts))
	return nil
}
