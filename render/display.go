package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// Display presents a rendered chart. Show returns where the chart ended up
// (a file path, a window title) for logging.
type Display interface {
	Show(name string, png []byte) (string, error)
}

// FileDisplay writes each chart to <Dir>/<name>.png.
type FileDisplay struct {
	Dir string
}

// Show implements Display.
func (d FileDisplay) Show(name string, png []byte) (string, error) {
	path, err := WriteFile(d.Dir, name+".png", png)
	if err != nil {
		return "", fmt.Errorf("display %s: %w", name, err)
	}
	return path, nil
}

// WriteFile writes data to <dir>/<name>, creating dir when needed.
func WriteFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
