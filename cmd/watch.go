package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/services"
	"github.com/memendex/mx/pkg/logger"
	"github.com/memendex/mx/pkg/ui"
)

var (
	watchQuiet bool
	watchTags  []string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload files dropped into a folder",
	Long: `Watch a folder and upload every new file placed in it.

The folder defaults to watch_dir from the config. Each file is uploaded
once it has stopped changing for watch_debounce_ms; hidden and temporary
files are ignored. Tags from watch_tags (or --tag) are added after upload.

Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress upload notifications")
	watchCmd.Flags().StringSliceVar(&watchTags, "tag", nil, "Tag added to every upload (repeatable)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt)
	defer stop()

	dir := appConfig.WatchDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no folder to watch: pass one or set watch_dir in the config")
	}

	tags := watchTags
	if !cmd.Flags().Changed("tag") {
		tags = appConfig.WatchTags
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatUpload("Watching drop folder"))
		fmt.Println(ui.FormatMuted("Folder: " + dir))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	dropper := newDropUploader(ctx, uploadService, domain.ParseTags(strings.Join(tags, ",")), debounce)
	defer dropper.stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDroppable(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				dropper.touch(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error(ctx, "watcher error", err)

		case <-ctx.Done():
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watcher stopped"))
			}
			return nil
		}
	}
}

// isDroppable filters out hidden, temporary and partial download files
func isDroppable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	for _, suffix := range []string{".tmp", ".part", ".crdownload", ".swp"} {
		if strings.HasSuffix(strings.ToLower(base), suffix) {
			return false
		}
	}
	return true
}

// dropUploader uploads each path once it has been quiet for the debounce period
type dropUploader struct {
	ctx      context.Context
	uploads  *services.UploadService
	tags     []string
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

func newDropUploader(ctx context.Context, uploads *services.UploadService, tags []string, debounce time.Duration) *dropUploader {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &dropUploader{
		ctx:      ctx,
		uploads:  uploads,
		tags:     tags,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}
}

// touch (re)starts the debounce timer for path
func (d *dropUploader) touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[path]; ok {
		if t.Stop() {
			d.wg.Done()
		}
	}
	d.wg.Add(1)
	d.timers[path] = time.AfterFunc(d.debounce, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
		d.upload(path)
	})
}

// stop cancels pending timers and waits for running uploads
func (d *dropUploader) stop() {
	d.mu.Lock()
	for path, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, path)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *dropUploader) upload(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	state := services.NewUploadFormState()
	state.SetFile(path)

	item, err := d.uploads.Upload(d.ctx, state.Form())
	if err != nil {
		if !watchQuiet {
			fmt.Println(ui.FormatError(fmt.Sprintf("Upload of %s failed: %v", filepath.Base(path), err)))
		}
		logger.Error(d.ctx, "drop folder upload failed", err, logger.Fields{"path": path})
		return
	}

	if len(d.tags) > 0 {
		if tagged, err := applyTags(d.ctx, *item, d.tags); err == nil {
			item = tagged
		} else {
			logger.Error(d.ctx, "drop folder tagging failed", err, logger.Fields{"id": item.ID})
		}
	}

	if !watchQuiet {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Uploaded %s as #%d %s", filepath.Base(path), item.ID, strings.Join(item.Tags, " "))))
	}
}
