package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	resp, err := store.Upload(ctx, &UploadRequest{
		Key:         "portfolios/abc/photo.jpg",
		Reader:      strings.NewReader("jpeg-bytes"),
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if resp.URL != "http://localhost:8080/uploads/portfolios/abc/photo.jpg" {
		t.Errorf("url = %q", resp.URL)
	}
	if resp.Size != int64(len("jpeg-bytes")) {
		t.Errorf("size = %d", resp.Size)
	}

	onDisk := filepath.Join(dir, "portfolios", "abc", "photo.jpg")
	if data, err := os.ReadFile(onDisk); err != nil || string(data) != "jpeg-bytes" {
		t.Fatalf("file = %q, %v", data, err)
	}

	if err := store.Delete(ctx, "portfolios/abc/photo.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
	if err := store.Delete(ctx, "portfolios/abc/photo.jpg"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
}

func TestLocalStorageKeysStayUnderBasePath(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	dir := filepath.Join(root, "uploads")
	store, err := NewLocalStorage(dir, "http://localhost/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	if _, err := store.Upload(ctx, &UploadRequest{Key: "../../escaped.txt", Reader: strings.NewReader("x")}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escaped.txt")); !os.IsNotExist(err) {
		t.Fatal("upload escaped the base path")
	}
	if _, err := os.Stat(filepath.Join(dir, "escaped.txt")); err != nil {
		t.Fatalf("upload not confined to base path: %v", err)
	}

	if _, err := store.Upload(ctx, &UploadRequest{Key: "..", Reader: strings.NewReader("x")}); err == nil {
		t.Fatal("expected error for empty key")
	}
}
