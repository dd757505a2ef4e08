package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/pkg/ui"
)

var openRefresh bool

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:     "open [id]",
	Short:   "Open an item in the default viewer",
	Aliases: []string{"o"},
	Long: `Open an item with open_viewer or the system default application.
Links open in the browser. Files and notes are downloaded to the local
cache first and reused on later opens.

Examples:
  mx open 42
  mx open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVar(&openRefresh, "refresh", false, "Download again even when cached")
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	item, err := resolveItem(ctx, args)
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return reportError(ctx, "find the item", err)
	}

	if item.Kind == domain.KindLink {
		fmt.Println(ui.FormatInfo("Opening " + item.FileName))
		return OpenFile(item.FileName, "")
	}

	path := appDirs.GetCachePath(item.ID, item.FileName)
	if _, err := os.Stat(path); err != nil || openRefresh {
		if _, err := fetchContent(ctx, catalogClient, *item, path, variantOriginal); err != nil {
			return reportError(ctx, "download", err)
		}
	}

	fmt.Println(ui.FormatInfo("Opening " + path))
	return OpenFile(path, appConfig.OpenViewer)
}
