package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"emptylines/internal/config"
)

// ErrNoInputs is returned when the given paths contain no lintable files.
var ErrNoInputs = errors.New("no source files found")

// ListSourceFiles returns the sorted list of files under dir whose extension
// is selected by files. Excluded names are matched against every directory
// and file base name; hidden directories are skipped.
func ListSourceFiles(dir string, files config.Files) ([]string, error) {
	exts := make(map[string]struct{}, len(files.Extensions))
	for _, ext := range files.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(name, ".") || excluded(name, files.Exclude)) {
				return filepath.SkipDir
			}
			return nil
		}
		if excluded(name, files.Exclude) {
			return nil
		}
		if _, ok := exts[strings.ToLower(filepath.Ext(name))]; ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// детерминированный порядок
	sort.Strings(out)
	return out, nil
}

func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == name {
			return true
		}
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// ExpandPaths turns command-line arguments into a sorted, de-duplicated file
// list. Directories are walked; files are taken as given, whatever their
// extension.
func ExpandPaths(paths []string, files config.Files) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		listed, err := ListSourceFiles(path, files)
		if err != nil {
			return nil, fmt.Errorf("failed to list %q: %w", path, err)
		}
		for _, file := range listed {
			add(file)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoInputs
	}
	sort.Strings(out)
	return out, nil
}
