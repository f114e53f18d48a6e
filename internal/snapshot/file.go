package snapshot

import (
	"context"
	"fmt"
	"os"
)

// File persists the snapshot in a single local file.
type File struct {
	path string
}

// NewFile builds a file-backed store.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load returns the file contents, or the empty string when the file does
// not exist yet.
func (f *File) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read snapshot file %s: %w", f.path, err)
	}
	return string(data), nil
}

// Save replaces the file contents with text.
func (f *File) Save(_ context.Context, text string) error {
	if err := os.WriteFile(f.path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("write snapshot file %s: %w", f.path, err)
	}
	return nil
}
