package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/memendex/mx/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your mx setup",
	Long: `Diagnose issues with your mx setup.

Checks for:
  - Configuration file and local directories
  - Server reachability (list, extensions and tag endpoints)
  - Editor, viewer and clipboard support`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	ctx := getContext()

	fmt.Println(ui.FormatTitle("mx Doctor"))
	fmt.Println()

	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appDirs.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", appDirs.ConfigPath)
		}
		return nil
	})

	checkStep("Cache Directory", func() error {
		f, err := os.CreateTemp(appDirs.CachePath, ".doctor-*")
		if err != nil {
			return fmt.Errorf("not writable: %w", err)
		}
		f.Close()
		return os.Remove(f.Name())
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking " + catalogClient.BaseURL() + "..."))

	checkStep("Catalog", func() error {
		env, err := catalogClient.List(ctx, 1, 1)
		if err != nil {
			logRemote(ctx, "doctor list", err)
			return err
		}
		if !env.Consistent() {
			return fmt.Errorf("envelope is inconsistent (count %d, %d items)", env.Count, len(env.Data))
		}
		return nil
	})

	checkStep("Extensions Endpoint", func() error {
		exts, err := catalogClient.KnownExtensions(ctx)
		if err != nil {
			logRemote(ctx, "doctor extensions", err)
			return fmt.Errorf("%v (thumbnails fall back to defaults)", err)
		}
		if len(exts) == 0 {
			return fmt.Errorf("server reported no extensions")
		}
		return nil
	})

	checkStep("Tag Suggestions", func() error {
		if _, err := catalogClient.TagSuggestions(ctx, ""); err != nil {
			logRemote(ctx, "doctor tags", err)
			return err
		}
		return nil
	})

	fmt.Println()

	checkStep("EDITOR Variable", func() error {
		if os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback 'vi')")
		}
		return nil
	})

	if appConfig.OpenViewer != "" {
		checkStep("Viewer ("+appConfig.OpenViewer+")", func() error {
			if _, err := exec.LookPath(appConfig.OpenViewer); err != nil {
				return fmt.Errorf("not found in PATH")
			}
			return nil
		})
	}

	checkStep("Clipboard", func() error {
		if clipboard.Unsupported {
			return fmt.Errorf("no clipboard utility found ('copy' prints instead)")
		}
		return nil
	})
}

// checkStep runs a check function and prints the result
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
		return
	}
	fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
	fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
}
