package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/services"
	"github.com/memendex/mx/pkg/ui"
)

var (
	uploadFile        string
	uploadTitle       string
	uploadLink        string
	uploadDescription string
	uploadTags        []string
	uploadYes         bool
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:     "upload",
	Short:   "Upload a file, link or note",
	Aliases: []string{"up", "add"},
	Long: `Upload a new item. The item type follows from the one input you fill:

  --file   uploads a file
  --link   stores a bookmark
  --title  creates a note

When uploading a file without --description, the file name is used.

Examples:
  mx upload --file ./cat.png
  mx upload --link https://example.com --description "good read"
  mx upload --title "Groceries" --description "milk, eggs" --tag todo`,
	Args: cobra.NoArgs,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadFile, "file", "f", "", "File to upload")
	uploadCmd.Flags().StringVarP(&uploadTitle, "title", "t", "", "Note title")
	uploadCmd.Flags().StringVarP(&uploadLink, "link", "l", "", "Bookmark url")
	uploadCmd.Flags().StringVarP(&uploadDescription, "description", "d", "", "Description")
	uploadCmd.Flags().StringSliceVar(&uploadTags, "tag", nil, "Tag to add after upload (repeatable)")
	uploadCmd.Flags().BoolVarP(&uploadYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	state := services.NewUploadFormState()
	state.SetDescription(uploadDescription)
	state.SetLink(uploadLink)
	state.SetTitle(uploadTitle)
	if uploadFile != "" {
		state.SetFile(uploadFile)
	}

	if appConfig.ConfirmUpload && !uploadYes {
		form := state.Form()
		kind, err := domain.Classify(form)
		if err != nil {
			return reportError(ctx, "upload", err)
		}
		if !confirm(fmt.Sprintf("Upload %s %q?", kind, describeForm(form))) {
			fmt.Println(ui.FormatInfo("Operation cancelled."))
			return nil
		}
	}

	item, err := uploadService.Submit(ctx, state)
	if err != nil {
		if item == nil {
			return reportError(ctx, "upload", err)
		}
		// Uploaded, but reloading the first page failed
		fmt.Println(ui.FormatWarning("Uploaded, but could not refresh the list: " + err.Error()))
	}

	fmt.Println(ui.FormatUpload(fmt.Sprintf("Uploaded %s #%d", item.Kind, item.ID)))

	if len(uploadTags) > 0 {
		tagged, err := applyTags(ctx, *item, domain.ParseTags(strings.Join(uploadTags, ",")))
		if err != nil {
			return reportError(ctx, "tag the new item", err)
		}
		fmt.Println(ui.FormatSuccess("Tagged: " + tagged.GetTagsString()))
	}
	return nil
}

// applyTags appends tags to a freshly created item
func applyTags(ctx context.Context, item domain.Item, tags []string) (*domain.Item, error) {
	merged := append([]string{}, item.Tags...)
	for _, tag := range tags {
		if !item.HasTag(tag) {
			merged = append(merged, tag)
		}
	}

	updated, _, err := editService.Submit(ctx, item, item.Description, merged)
	if errors.Is(err, services.ErrNothingToEdit) {
		return &item, nil
	}
	return updated, err
}

func describeForm(form domain.UploadForm) string {
	switch {
	case form.FilePath != "":
		return form.FilePath
	case form.Link != "":
		return form.Link
	default:
		return form.Title
	}
}
