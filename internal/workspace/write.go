//go:build !windows

package workspace

import (
	"io/fs"
	"os"

	"github.com/google/renameio/v2"
)

// WriteFile atomically replaces path, keeping the permissions of an existing file
func WriteFile(path string, data []byte) error {
	return renameio.WriteFile(path, data, fileMode(path))
}

func fileMode(path string) fs.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
