package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTOML is written by `emptylines init`.
const DefaultTOML = `# emptylines configuration

[files]
extensions = [".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"]
exclude = ["node_modules", "dist"]

# Blank-line policy per zone. A number means exactly that many blank lines;
# a table sets a range, e.g. { min = 1, max = 2 }. A missing max is unbounded.
[rules.empty-lines]
severity = "warning" # off | info | warning | error
bof = 0              # before the first line of code
eof = 1              # after the last line of code
eoi = 2              # right after the leading import block
default = { min = 0, max = 1 } # everywhere else

[rules.no-relative-parent-imports]
severity = "off"
# base-url = "src"
`

// ErrExists is returned by WriteDefault when a config file is present.
var ErrExists = errors.New("configuration file already exists")

// WriteDefault creates dir/emptylines.toml. An existing file is kept
// unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(DefaultTOML), 0o644); err != nil { //nolint:gosec // config is meant to be shared
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
