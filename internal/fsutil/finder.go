// Package fsutil provides file system helpers for script discovery.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// scriptExtension is the suffix of noise script files.
const scriptExtension = ".hcl"

// FindScripts recursively collects every noise script under root and
// returns the paths sorted lexicographically, so "the first script" is a
// stable choice across runs.
func FindScripts(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), scriptExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// IsScript reports whether path names a noise script file.
func IsScript(path string) bool {
	return filepath.Ext(path) == scriptExtension
}
