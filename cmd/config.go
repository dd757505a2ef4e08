package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/pkg/ui"
)

var configPathOnly bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the mx configuration file",
	Long: `Open the configuration file in $EDITOR.

Use --path to print its location instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appDirs.ConfigPath

		if configPathOnly {
			fmt.Println(path)
			return nil
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config file not found at %s", path)
		}

		fmt.Println(ui.FormatInfo("Opening config: " + path))

		c := exec.Command(GetPreferredEditor(), path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	configCmd.Flags().BoolVar(&configPathOnly, "path", false, "Print the config file location")
}
