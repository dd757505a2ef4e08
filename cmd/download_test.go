package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/memendex/mx/internal/core/domain"
)

type fakeDownloader struct {
	content string
	thumb   string
	preview string
	err     error
}

func (f fakeDownloader) Download(ctx context.Context, id int64, w io.Writer) (int64, error) {
	if f.err != nil {
		w.Write([]byte("partial"))
		return 0, f.err
	}
	n, err := io.WriteString(w, f.content)
	return int64(n), err
}

func (f fakeDownloader) Thumbnail(ctx context.Context, id int64, w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.thumb)
	return int64(n), err
}

func (f fakeDownloader) Preview(ctx context.Context, id int64, w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.preview)
	return int64(n), err
}

func TestFetchContent(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "7-cat.png")
	src := fakeDownloader{content: "full image", thumb: "thumb", preview: "preview"}
	item := domain.Item{ID: 7, Kind: domain.KindFile, FileName: "cat.png"}

	n, err := fetchContent(context.Background(), src, item, dest, variantOriginal)
	if err != nil {
		t.Fatalf("fetchContent() failed: %v", err)
	}
	if n != int64(len("full image")) {
		t.Errorf("Expected %d bytes, got %d", len("full image"), n)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "full image" {
		t.Errorf("Expected content written, got %q", data)
	}

	if _, err := fetchContent(context.Background(), src, item, dest, variantThumbnail); err != nil {
		t.Fatalf("fetchContent(thumbnail) failed: %v", err)
	}
	data, _ = os.ReadFile(dest)
	if string(data) != "thumb" {
		t.Errorf("Expected thumbnail written, got %q", data)
	}

	if _, err := fetchContent(context.Background(), src, item, dest, variantPreview); err != nil {
		t.Fatalf("fetchContent(preview) failed: %v", err)
	}
	data, _ = os.ReadFile(dest)
	if string(data) != "preview" {
		t.Errorf("Expected preview written, got %q", data)
	}
}

func TestFetchContentRemovesPartialFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "8-dog.gif")
	src := fakeDownloader{err: &domain.RemoteRejection{Op: "download", Status: 404, Body: "no such meme"}}

	_, err := fetchContent(context.Background(), src, domain.Item{ID: 8}, dest, variantOriginal)
	if domain.RemoteBody(err) != "no such meme" {
		t.Errorf("Expected the server rejection, got %v", err)
	}
	if _, statErr := os.Stat(dest); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("Expected partial file to be removed")
	}
}
