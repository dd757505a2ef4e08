package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/adapters/remote"
	"github.com/memendex/mx/internal/core/services"
	"github.com/memendex/mx/pkg/appdirs"
	"github.com/memendex/mx/pkg/config"
	"github.com/memendex/mx/pkg/logger"
	"github.com/memendex/mx/pkg/ui"
)

var (
	// Local paths and configuration
	appDirs   *appdirs.Dirs
	appConfig *config.Config

	// Remote catalog
	catalogClient *remote.Client

	// Services
	collectionService *services.CollectionService
	capabilityService *services.CapabilityService
	editService       *services.EditService
	uploadService     *services.UploadService
	tagService        *services.TagService

	// Global flags
	serverOverride string
	debugFlag      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mx",
	Short: "mx - a terminal client for the memendex meme catalog",
	Long: ui.StyleTitle.Render("mx") + " - memendex catalog client\n\n" +
		"Browse, search, upload and tag the files, links and notes\n" +
		"stored on a memendex server.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(extsCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&serverOverride, "server", "", "Server URL (overrides config and "+config.EnvServerURL+")")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write debug entries to the log file")
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Version and help need nothing
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	d, err := appdirs.New()
	if err != nil {
		return fmt.Errorf("failed to resolve local directories: %w", err)
	}
	if err := d.Initialize(); err != nil {
		return fmt.Errorf("failed to create local directories: %w", err)
	}
	appDirs = d

	cfg, err := config.Load(appDirs.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serverOverride != "" {
		cfg.ServerURL = serverOverride
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if debugFlag {
		cfg.Debug = true
	}
	appConfig = cfg

	// Write a default config on first run so `mx config` has something to open
	if _, err := os.Stat(appDirs.ConfigPath); os.IsNotExist(err) {
		if err := config.DefaultConfig().Save(appDirs.ConfigPath); err != nil {
			fmt.Println(ui.FormatWarning("Could not write default config: " + err.Error()))
		}
	}

	ui.SetTheme(appConfig.ColorTheme)

	if err := initLogger(); err != nil {
		fmt.Println(ui.FormatWarning("Logging disabled: " + err.Error()))
	}

	client, err := remote.NewClient(appConfig.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	client.SetUserAgent("mx/" + Version)
	catalogClient = client

	collectionService = services.NewCollectionService(catalogClient, appConfig.PageSize)
	capabilityService = services.NewCapabilityService(catalogClient)
	editService = services.NewEditService(catalogClient, collectionService)
	uploadService = services.NewUploadService(catalogClient, collectionService)
	tagService = services.NewTagService(catalogClient)

	return nil
}

// initLogger points the diagnostic log at a file so it never mixes with
// command output or the dashboard.
func initLogger() error {
	path := appConfig.LogFile
	if path == "" {
		path = appDirs.LogPath()
	}

	var out io.Writer = io.Discard
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err == nil {
		out = f
	}
	logger.Init("mx", out, appConfig.Debug)
	return err
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
