package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/minishop/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newUploadService(t *testing.T, maxSize int64) *UploadService {
	t.Helper()
	return NewUploadService(&config.Config{Upload: config.UploadConfig{
		Dir:               t.TempDir(),
		MaxSize:           maxSize,
		AllowedExtensions: []string{".jpg", "png"},
	}})
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestSaveFileStoresImage(t *testing.T) {
	svc := newUploadService(t, 1<<20)
	header := makeFileHeader(t, "photo.PNG", pngHeader)

	filename, err := svc.SaveFile(header)
	if err != nil {
		t.Fatalf("save file failed: %v", err)
	}
	if filepath.Ext(filename) != ".png" {
		t.Fatalf("stored filename should keep extension, got %s", filename)
	}
	if _, err := os.Stat(filepath.Join(svc.Dir(), filename)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	if err := svc.RemoveFile(filename); err != nil {
		t.Fatalf("remove file failed: %v", err)
	}
	if err := svc.RemoveFile(filename); err != nil {
		t.Fatalf("removing missing file should be tolerated, got %v", err)
	}
}

func TestSaveFileRejectsInvalidUpload(t *testing.T) {
	svc := newUploadService(t, 16)
	if _, err := svc.SaveFile(makeFileHeader(t, "photo.png", append(pngHeader, make([]byte, 64)...))); !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("oversized upload want ErrUploadTooLarge got %v", err)
	}

	svc = newUploadService(t, 1<<20)
	if _, err := svc.SaveFile(makeFileHeader(t, "notes.txt", pngHeader)); !errors.Is(err, ErrUploadExtensionInvalid) {
		t.Fatalf("disallowed extension want ErrUploadExtensionInvalid got %v", err)
	}
	if _, err := svc.SaveFile(makeFileHeader(t, "fake.png", []byte("plain text body, not an image"))); !errors.Is(err, ErrUploadExtensionInvalid) {
		t.Fatalf("non-image content want ErrUploadExtensionInvalid got %v", err)
	}
}

func TestRemoveFileIgnoresPathTraversal(t *testing.T) {
	svc := newUploadService(t, 1<<20)
	outside := filepath.Join(filepath.Dir(svc.Dir()), "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatalf("write outside file failed: %v", err)
	}

	if err := svc.RemoveFile("../keep.txt"); err != nil {
		t.Fatalf("remove with traversal failed: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside upload dir should survive: %v", err)
	}
}
