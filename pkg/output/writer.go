package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// FileFor returns the CSV path for an endpoint inside dir.
func FileFor(dir, name string) string {
	return filepath.Join(dir, name+".csv")
}

// WriteLines replaces the file at path with lines joined by newlines.
// No trailing newline is appended.
func WriteLines(path string, lines []string) (int, error) {
	data := []byte(strings.Join(lines, "\n"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(data), nil
}
