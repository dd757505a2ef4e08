package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [id]",
	Short: "Clear the download cache",
	Long: `Remove content downloaded by 'open' and the dashboard.

If no argument is provided, the entire cache directory is cleared.
With an id, only that item's cached files are removed.

Examples:
  mx clean
  mx clean 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Print(ui.StyleWarning.Render("Cleaning entire cache... "))

		if err := appDirs.CleanCache(); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}

		fmt.Println(ui.FormatSuccess("Done"))
		return nil
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	removed, err := appDirs.CleanItem(id)
	if err != nil {
		return err
	}
	if removed == 0 {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Nothing cached for #%d", id)))
		return nil
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Removed %d cached file(s) for #%d", removed, id)))
	return nil
}
