package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// Store saves uploaded item images under <Dir>/uploads with generated names
// and hands back the relative token stored as inventory.image_path.
type Store struct {
	Dir string // media root, e.g. ./web/media
}

// Allowed reports whether the filename carries an accepted image extension.
func Allowed(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// Save writes the uploaded file under a fresh uuid-based name and returns the
// relative path ("uploads/<name>") for the image_path column.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	dir := filepath.Join(s.Dir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "uploads/" + name, nil
}

// Remove deletes a previously stored image, best-effort. Tokens that escape
// the media root are refused.
func (s *Store) Remove(relPath string) {
	if relPath == "" {
		return
	}
	clean := filepath.Clean(relPath)
	if filepath.IsAbs(clean) || strings.Contains(clean, "..") {
		return
	}
	_ = os.Remove(filepath.Join(s.Dir, clean))
}
