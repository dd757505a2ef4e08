package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/pkg/logger"
	"github.com/memendex/mx/pkg/ui"
)

// errCancelled is returned when the user backs out of a picker or prompt
var errCancelled = errors.New("cancelled")

// GetPreferredEditor returns the editor command from the environment, or vi
func GetPreferredEditor() string {
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// OpenFile opens a file using a custom viewer or the OS default application.
func OpenFile(path string, viewer string) error {
	var cmd *exec.Cmd

	if viewer != "" {
		cmd = exec.Command(viewer, path)
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", path)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", path)
		default:
			cmd = exec.Command("xdg-open", path)
		}
	}

	// Start() detaches so mx can exit while the viewer stays open
	if err := cmd.Start(); err != nil {
		if viewer != "" {
			return fmt.Errorf("failed to open '%s' with '%s': %w", path, viewer, err)
		}
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}

	return nil
}

// reportError prints err for the user. Remote failures are also written to
// the diagnostic log together with the server's response body.
func reportError(ctx context.Context, action string, err error) error {
	logRemote(ctx, action, err)

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Println(ui.FormatWarning(verr.Message))
	case errors.Is(err, domain.ErrAmbiguousKind):
		fmt.Println(ui.FormatWarning("Fill exactly one of --file, --title or --link"))
	case errors.Is(err, domain.ErrQueryTooShort):
		fmt.Println(ui.FormatWarning(fmt.Sprintf("Search needs at least %d characters", domain.MinQueryLength)))
	default:
		fmt.Println(ui.FormatError(fmt.Sprintf("Failed to %s: %v", action, err)))
	}
	return err
}

// logRemote writes transport errors and server rejections to the diagnostic log
func logRemote(ctx context.Context, action string, err error) {
	if !domain.IsRemote(err) {
		return
	}
	fields := logger.Fields{"action": action}
	if body := domain.RemoteBody(err); body != "" {
		fields["body"] = body
	}
	logger.Error(ctx, action+" failed", err, fields)
}

// parseID parses an item id argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

// resolveItem fetches the item named by args[0], or lets the user pick one
// from the first page when no id was given.
func resolveItem(ctx context.Context, args []string) (*domain.Item, error) {
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return catalogClient.Get(ctx, id)
	}

	if err := collectionService.Load(ctx); err != nil {
		return nil, err
	}
	items := collectionService.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("the catalog is empty")
	}
	return pickItem(items)
}

// pickItem shows a fuzzy finder over items
func pickItem(items []domain.Item) (*domain.Item, error) {
	if len(items) == 1 {
		return &items[0], nil
	}

	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string {
			return fmt.Sprintf("%d  %s  %s", items[i].ID, items[i].Title(), items[i].GetTagsString())
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return itemPreview(items[i])
		}),
	)
	if err != nil {
		return nil, errCancelled
	}
	return &items[idx], nil
}

// itemPreview renders the plain text details of an item
func itemPreview(item domain.Item) string {
	preview := fmt.Sprintf("ID: %d\nType: %s\nFile: %s", item.ID, item.Kind, item.FileName)
	if item.Extension != "" {
		preview += fmt.Sprintf("\nExtension: %s", item.Extension)
	}
	preview += fmt.Sprintf("\nTags: %s", item.GetTagsString())
	if item.Description != "" {
		preview += "\n\n" + item.Description
	}
	return preview
}

// confirm asks a yes/no question on stdin
func confirm(question string) bool {
	fmt.Print(ui.StyleWarning.Render(question + " (y/n): "))

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
