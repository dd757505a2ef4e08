package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports/mocks"
	"github.com/memendex/mx/internal/core/services"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{
		"list", "search", "upload", "edit", "show", "tags", "exts",
		"download", "open", "copy", "watch", "dashboard", "doctor", "clean", "stats",
		"config", "version",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "mx" {
		t.Errorf("Expected root command Use to be 'mx', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}

	for _, name := range []string{"server", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Persistent flag '--%s' not found", name)
		}
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()

	if len(commands) == 0 {
		t.Fatal("No commands registered")
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

// TestFlagsExist verifies important flags are registered
func TestFlagsExist(t *testing.T) {
	tests := []struct {
		command  string
		flagName string
	}{
		{"list", "page"},
		{"list", "size"},
		{"upload", "file"},
		{"upload", "title"},
		{"upload", "link"},
		{"upload", "description"},
		{"upload", "tag"},
		{"upload", "yes"},
		{"edit", "description"},
		{"edit", "tags"},
		{"edit", "add-tag"},
		{"edit", "remove-tag"},
		{"download", "output"},
		{"download", "thumbnail"},
		{"download", "preview"},
		{"open", "refresh"},
		{"copy", "field"},
		{"watch", "tag"},
		{"watch", "quiet"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"_"+tt.flagName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", tt.command, err)
			}

			if cmd.Flags().Lookup(tt.flagName) == nil {
				t.Errorf("Flag '--%s' not found on command '%s'", tt.flagName, tt.command)
			}
		})
	}
}

// TestCommandAliases verifies command aliases work
func TestCommandAliases(t *testing.T) {
	tests := []struct {
		alias   string
		command string
	}{
		{"ls", "list"},
		{"find", "search"},
		{"up", "upload"},
		{"dl", "download"},
		{"yank", "copy"},
		{"dash", "dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.alias})
			if err != nil {
				t.Fatalf("Alias '%s' not found: %v", tt.alias, err)
			}
			if cmd.Name() != tt.command {
				t.Errorf("Alias '%s' resolved to '%s', want '%s'", tt.alias, cmd.Name(), tt.command)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"#7", 7, false},
		{" 3 ", 3, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseID(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestClipboardText(t *testing.T) {
	link := domain.Item{ID: 1, Kind: domain.KindLink, FileName: "https://example.com", Description: "a site", Tags: []string{"#web", "#ref"}}
	file := domain.Item{ID: 2, Kind: domain.KindFile, FileName: "cat.png", Description: "a cat"}

	tests := []struct {
		name    string
		item    domain.Item
		field   string
		want    string
		wantErr bool
	}{
		{"link auto copies url", link, "auto", "https://example.com", false},
		{"file auto copies description", file, "auto", "a cat", false},
		{"tags joined", link, "tags", "#web #ref", false},
		{"empty tags", file, "tags", "", false},
		{"name", file, "name", "cat.png", false},
		{"unknown field", file, "size", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clipboardText(tt.item, tt.field)
			if (err != nil) != tt.wantErr {
				t.Fatalf("clipboardText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("clipboardText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseEditBuffer(t *testing.T) {
	tests := []struct {
		name     string
		buf      string
		wantDesc string
		wantTags []string
	}{
		{
			name:     "tags and description",
			buf:      "#cat funny\n\nA cat\nin a box\n",
			wantDesc: "A cat\nin a box",
			wantTags: []string{"#cat", "#funny"},
		},
		{
			name:     "no tags",
			buf:      "\n\njust text",
			wantDesc: "just text",
			wantTags: []string{},
		},
		{
			name:     "tags only",
			buf:      "#a,#b",
			wantDesc: "",
			wantTags: []string{"#a", "#b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, tags := parseEditBuffer(tt.buf)
			if desc != tt.wantDesc {
				t.Errorf("description = %q, want %q", desc, tt.wantDesc)
			}
			if !domain.TagsEqual(tags, tt.wantTags) {
				t.Errorf("tags = %v, want %v", tags, tt.wantTags)
			}
		})
	}
}

func TestResolveEditBufferKeepsTrailingNewlines(t *testing.T) {
	item := domain.Item{ID: 1, Description: "caption\n\n", Tags: []string{"#a"}}

	untouched := strings.Join(item.Tags, " ") + "\n\n" + item.Description
	desc, tags := resolveEditBuffer(item, untouched)
	if desc != item.Description {
		t.Errorf("Expected untouched description %q, got %q", item.Description, desc)
	}
	if patch := services.BuildPatch(item, desc, tags); !patch.Empty() {
		t.Errorf("Expected empty patch for an untouched buffer, got %+v", patch)
	}

	desc, _ = resolveEditBuffer(item, "#a\n\ncaption edited\n")
	if desc != "caption edited" {
		t.Errorf("Expected edited description, got %q", desc)
	}
}

func TestIsDroppable(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/drop/cat.png", true},
		{"/drop/notes.txt", true},
		{"/drop/.DS_Store", false},
		{"/drop/~lock", false},
		{"/drop/video.mp4.part", false},
		{"/drop/file.CRDOWNLOAD", false},
		{"/drop/.cat.png.swp", false},
		{"/drop/upload.tmp", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isDroppable(tt.path); got != tt.want {
				t.Errorf("isDroppable(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDropUploaderDebounces(t *testing.T) {
	watchQuiet = true
	defer func() { watchQuiet = false }()

	catalog := mocks.NewMockCatalog()
	uploads := services.NewUploadService(catalog, nil)

	path := filepath.Join(t.TempDir(), "drop.gif")
	if err := os.WriteFile(path, []byte("gif89a"), 0644); err != nil {
		t.Fatal(err)
	}

	d := newDropUploader(context.Background(), uploads, nil, 20*time.Millisecond)
	d.touch(path)
	d.touch(path)
	d.touch(path)

	time.Sleep(200 * time.Millisecond)
	d.stop()

	if len(catalog.Uploads) != 1 {
		t.Fatalf("Expected one upload, got %d", len(catalog.Uploads))
	}
	if catalog.Uploads[0].FileName != "drop.gif" {
		t.Errorf("Expected drop.gif, got %q", catalog.Uploads[0].FileName)
	}
	if catalog.Uploads[0].Description != "drop.gif" {
		t.Errorf("Expected description to default to the file name, got %q", catalog.Uploads[0].Description)
	}
}

func TestDropUploaderStopCancelsPending(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	uploads := services.NewUploadService(catalog, nil)

	path := filepath.Join(t.TempDir(), "late.png")
	if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	d := newDropUploader(context.Background(), uploads, nil, time.Hour)
	d.touch(path)
	d.stop()

	if len(catalog.Uploads) != 0 {
		t.Errorf("Expected no upload after stop, got %d", len(catalog.Uploads))
	}
}

func TestContainsFold(t *testing.T) {
	tags := []string{"#Cat", "#dog"}
	if !containsFold(tags, "#cat") {
		t.Error("Expected case-insensitive match")
	}
	if containsFold(tags, "#bird") {
		t.Error("Expected no match")
	}
}
