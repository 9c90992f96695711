// Package filex holds small file-system helpers for the CLI.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EnsureSubdDir creates dirName (if missing) and returns its absolute path.
// A relative dirName is resolved against the current working directory.
func EnsureSubdDir(dirName string) (string, error) {
	dir := filepath.Clean(dirName)
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// UniquePath joins dir and the base of name, adding " (n)" before the
// extension until the path does not exist yet.
func UniquePath(dir, name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = "download"
	}

	candidate := filepath.Join(dir, base)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, stem+" ("+strconv.Itoa(n)+")"+ext)
	}
}

// WriteFile writes data to path with owner-only permissions.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
