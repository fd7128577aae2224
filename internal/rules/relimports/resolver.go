package relimports

import (
	"os"
	"path/filepath"
)

// Resolver maps a module specifier, relative to the importing file's
// directory, to an absolute file path.
type Resolver interface {
	Resolve(fromDir, specifier string) (string, bool)
}

// DefaultExtensions are tried, in order, after the bare specifier.
var DefaultExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".d.ts", ".json"}

// FSResolver resolves specifiers against the file system the way bundlers
// do: the path itself, the path with each extension, then index files.
type FSResolver struct {
	Extensions []string
}

func (r FSResolver) extensions() []string {
	if len(r.Extensions) == 0 {
		return DefaultExtensions
	}
	return r.Extensions
}

func (r FSResolver) Resolve(fromDir, specifier string) (string, bool) {
	base := filepath.Join(fromDir, filepath.FromSlash(specifier))
	if isFile(base) {
		return base, true
	}
	for _, ext := range r.extensions() {
		if isFile(base + ext) {
			return base + ext, true
		}
	}
	for _, ext := range r.extensions() {
		candidate := filepath.Join(base, "index"+ext)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
