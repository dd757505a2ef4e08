package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports"
	"github.com/memendex/mx/pkg/logger"
	"github.com/memendex/mx/pkg/ui"
)

var (
	downloadOutput    string
	downloadThumbnail bool
	downloadPreview   bool
)

// contentVariant selects which rendition of an item to fetch
type contentVariant int

const (
	variantOriginal contentVariant = iota
	variantThumbnail
	variantPreview
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:     "download <id>",
	Short:   "Download the content of an item",
	Aliases: []string{"dl"},
	Long: `Download the original content of an item into download_dir,
or to the path given with --output.

Examples:
  mx download 42
  mx download 42 -o ~/Desktop/cat.png
  mx download 42 --thumbnail
  mx download 42 --preview`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Destination file")
	downloadCmd.Flags().BoolVar(&downloadThumbnail, "thumbnail", false, "Download the thumbnail instead")
	downloadCmd.Flags().BoolVar(&downloadPreview, "preview", false, "Download the server-rendered preview image instead")
	downloadCmd.MarkFlagsMutuallyExclusive("thumbnail", "preview")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	item, err := catalogClient.Get(ctx, id)
	if err != nil {
		return reportError(ctx, "find the item", err)
	}

	variant := variantOriginal
	switch {
	case downloadThumbnail:
		variant = variantThumbnail
	case downloadPreview:
		variant = variantPreview
	}

	dest := downloadOutput
	if dest == "" {
		name := filepath.Base(item.FileName)
		switch {
		case variant == variantPreview:
			name = fmt.Sprintf("%d-preview.%s", item.ID, domain.IconExtension(*item))
		case variant == variantThumbnail || item.Kind != domain.KindFile:
			name = fmt.Sprintf("%d.%s", item.ID, domain.IconExtension(*item))
		}
		dest = filepath.Join(appConfig.DownloadDir, name)
	}

	n, err := fetchContent(ctx, catalogClient, *item, dest, variant)
	if err != nil {
		return reportError(ctx, "download", err)
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Saved %s (%d bytes)", dest, n)))
	return nil
}

// fetchContent streams one rendition of an item into dest.
// A partial file is removed on failure.
func fetchContent(ctx context.Context, src ports.Downloader, item domain.Item, dest string, variant contentVariant) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	var n int64
	switch variant {
	case variantThumbnail:
		n, err = src.Thumbnail(ctx, item.ID, f)
	case variantPreview:
		n, err = src.Preview(ctx, item.ID, f)
	default:
		n, err = src.Download(ctx, item.ID, f)
	}
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return 0, err
	}

	logger.Debug(ctx, "content saved", logger.Fields{"id": item.ID, "path": dest, "bytes": n})
	return n, nil
}
