package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/pkg/ui"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:     "show [id]",
	Short:   "Show the details of an item",
	Aliases: []string{"info"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	capabilityService.Start(ctx)

	item, err := resolveItem(ctx, args)
	if errors.Is(err, errCancelled) {
		return nil
	}
	if err != nil {
		return reportError(ctx, "find the item", err)
	}

	<-capabilityService.Done()
	printItem(*item)
	return nil
}

func printItem(item domain.Item) {
	fmt.Println(ui.FormatTitle(ui.KindIcon(item.Kind) + " " + item.Title()))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("ID", strconv.FormatInt(item.ID, 10)))
	fmt.Println(ui.RenderKeyValue("Type", string(item.Kind)))
	switch item.Kind {
	case domain.KindLink:
		fmt.Println(ui.RenderKeyValue("Link", item.FileName))
	case domain.KindNote:
		fmt.Println(ui.RenderKeyValue("Title", item.FileName))
	default:
		fmt.Println(ui.RenderKeyValue("File", item.FileName))
		fmt.Println(ui.RenderKeyValue("Extension", item.Extension))
	}
	fmt.Println(ui.RenderKeyValue("Tags", ui.FormatTags(item.Tags)))

	thumb := "no"
	if capabilityService.HasThumbnail(item) {
		thumb = "yes"
	}
	fmt.Println(ui.RenderKeyValue("Thumbnail", thumb))

	if item.Description != "" {
		fmt.Println()
		fmt.Println(item.Description)
	}
}
