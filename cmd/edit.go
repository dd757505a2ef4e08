package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/services"
	"github.com/memendex/mx/pkg/ui"
)

var (
	editDescription string
	editTags        string
	editAddTags     []string
	editRemoveTags  []string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:     "edit [id]",
	Short:   "Edit an item's description and tags",
	Aliases: []string{"e"},
	Long: `Edit the description and tags of an item.
If no id is provided, shows an interactive list of the first page.
Without any flag the item opens in $EDITOR: the first line holds the tags,
everything after the blank line is the description.

Only what changed is sent to the server.

Examples:
  mx edit 42 --description "new caption"
  mx edit 42 --tags "#cat,#funny"
  mx edit 42 --add-tag reaction --remove-tag old
  mx edit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "Replace the description")
	editCmd.Flags().StringVar(&editTags, "tags", "", "Replace all tags (comma separated)")
	editCmd.Flags().StringSliceVarP(&editAddTags, "add-tag", "a", nil, "Add a tag (repeatable)")
	editCmd.Flags().StringSliceVarP(&editRemoveTags, "remove-tag", "r", nil, "Remove a tag (repeatable)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	item, err := resolveItem(ctx, args)
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return reportError(ctx, "find the item", err)
	}

	description := item.Description
	tags := append([]string{}, item.Tags...)

	flags := cmd.Flags()
	interactive := !flags.Changed("description") && !flags.Changed("tags") &&
		!flags.Changed("add-tag") && !flags.Changed("remove-tag")

	if interactive {
		description, tags, err = editInEditor(*item)
		if err != nil {
			return err
		}
	} else {
		if flags.Changed("description") {
			description = editDescription
		}
		if flags.Changed("tags") {
			tags = domain.ParseTags(editTags)
		}
		for _, t := range editRemoveTags {
			tags = domain.RemoveTag(tags, t)
		}
		for _, t := range domain.ParseTags(strings.Join(editAddTags, ",")) {
			if !containsFold(tags, t) {
				tags = append(tags, t)
			}
		}
	}

	updated, _, err := editService.Submit(ctx, *item, description, tags)
	if errors.Is(err, services.ErrNothingToEdit) {
		fmt.Println(ui.FormatInfo("Nothing changed."))
		return nil
	}
	if err != nil {
		return reportError(ctx, "edit the item", err)
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Updated #%d", updated.ID)))
	fmt.Println(ui.RenderKeyValue("Description", updated.Title()))
	fmt.Println(ui.RenderKeyValue("Tags", ui.FormatTags(updated.Tags)))
	return nil
}

// editInEditor round-trips the item through a temporary file
func editInEditor(item domain.Item) (string, []string, error) {
	f, err := os.CreateTemp("", fmt.Sprintf("mx-edit-%d-*.txt", item.ID))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(f.Name())

	content := strings.Join(item.Tags, " ") + "\n\n" + item.Description
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	f.Close()

	c := exec.Command(GetPreferredEditor(), f.Name())
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return "", nil, fmt.Errorf("editor exited: %w", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		return "", nil, fmt.Errorf("failed to read temp file: %w", err)
	}

	description, tags := resolveEditBuffer(item, string(data))
	return description, tags, nil
}

// resolveEditBuffer parses buf and keeps item's own description when the
// buffer only lost its trailing newlines
func resolveEditBuffer(item domain.Item, buf string) (string, []string) {
	description, tags := parseEditBuffer(buf)
	if description == strings.TrimRight(item.Description, "\n") {
		description = item.Description
	}
	return description, tags
}

// parseEditBuffer splits the editor buffer into description and tags
func parseEditBuffer(buf string) (string, []string) {
	tagLine, rest, _ := strings.Cut(buf, "\n")
	rest = strings.TrimPrefix(rest, "\n")
	return strings.TrimRight(rest, "\n"), domain.ParseTags(tagLine)
}

func containsFold(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
