package uploads_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tillbook/internal/uploads"
)

func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["image"][0]
}

func TestSaveGeneratesNameAndKeepsExtension(t *testing.T) {
	store := &uploads.Store{Dir: t.TempDir()}

	rel, err := store.Save(fileHeader(t, "photo.PNG", "fake-png-bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rel, "uploads/") || !strings.HasSuffix(rel, ".png") {
		t.Fatalf("unexpected token %q", rel)
	}
	base := strings.TrimSuffix(strings.TrimPrefix(rel, "uploads/"), ".png")
	if strings.Contains(base, "-") || base == "photo" {
		t.Fatalf("name should be generated, got %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir, rel))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fake-png-bytes" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	store := &uploads.Store{Dir: t.TempDir()}
	for _, name := range []string{"payload.exe", "script.php", "noext"} {
		if _, err := store.Save(fileHeader(t, name, "x")); err == nil {
			t.Fatalf("%s should be rejected", name)
		}
	}
}

func TestAllowed(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "e.webp"} {
		if !uploads.Allowed(name) {
			t.Fatalf("%s should be allowed", name)
		}
	}
	for _, name := range []string{"a.exe", "b.svg", "c"} {
		if uploads.Allowed(name) {
			t.Fatalf("%s should be rejected", name)
		}
	}
}

func TestRemoveRefusesEscapingTokens(t *testing.T) {
	dir := t.TempDir()
	store := &uploads.Store{Dir: dir}

	outside := filepath.Join(filepath.Dir(dir), "outside.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	store.Remove("../outside.txt")
	if _, err := os.Stat(outside); err != nil {
		t.Fatal("traversal token must be refused")
	}

	rel, err := store.Save(fileHeader(t, "photo.png", "x"))
	if err != nil {
		t.Fatal(err)
	}
	store.Remove(rel)
	if _, err := os.Stat(filepath.Join(dir, rel)); !os.IsNotExist(err) {
		t.Fatal("stored file should be removed")
	}
}
