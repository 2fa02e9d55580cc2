package util

import (
	"os"
	"path/filepath"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// EnsureParentDir creates the directory that will hold the file at path.
func EnsureParentDir(path string) error {
	return EnsureDir(filepath.Dir(path))
}
