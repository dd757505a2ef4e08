package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/pkg/ui"
)

var copyField string

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:     "copy <id>",
	Short:   "Copy an item's link, description or tags to the clipboard",
	Aliases: []string{"cp", "yank"},
	Long: `Copy part of an item to the clipboard.

Fields:
  auto         the link for bookmarks, the description otherwise (default)
  description  the description
  tags         the tags, space separated
  name         the file name, link or note title`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().StringVarP(&copyField, "field", "F", "auto", "What to copy (auto, description, tags, name)")
}

func runCopy(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	item, err := catalogClient.Get(ctx, id)
	if err != nil {
		return reportError(ctx, "find the item", err)
	}

	text, err := clipboardText(*item, copyField)
	if err != nil {
		return err
	}

	if err := clipboard.WriteAll(text); err != nil {
		fmt.Println(ui.FormatWarning("Clipboard unavailable, printing instead"))
		fmt.Println(text)
		return nil
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Copied %s of #%d", copyField, item.ID)))
	return nil
}

// clipboardText picks the text of item named by field
func clipboardText(item domain.Item, field string) (string, error) {
	switch field {
	case "auto":
		if item.Kind == domain.KindLink {
			return item.FileName, nil
		}
		return item.Description, nil
	case "description":
		return item.Description, nil
	case "tags":
		return strings.Join(item.Tags, " "), nil
	case "name":
		return item.FileName, nil
	}
	return "", fmt.Errorf("unknown field %q (use auto, description, tags or name)", field)
}
