package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileName is the primary configuration file name.
const FileName = "emptylines.toml"

// FileNames lists discovered names in priority order.
var FileNames = []string{FileName, ".emptylines.yaml", ".emptylines.yml"}

// Format is the syntax of a configuration file.
type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFor picks the syntax by file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Find walks up from startDir and returns the first configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the configuration governing startDir, or the defaults
// rooted at startDir when no file exists.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if ok {
		return Load(path)
	}
	cfg := Default()
	root, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}
	cfg.Root = root
	return cfg, nil
}

// Load reads and validates one configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg, err := Parse(data, FormatFor(path), abs)
	if err != nil {
		return nil, err
	}
	cfg.Root = filepath.Dir(abs)
	return cfg, nil
}

type rawConfig struct {
	Files *Files                    `toml:"files" yaml:"files"`
	Rules map[string]map[string]any `toml:"rules" yaml:"rules"`
}

// Parse decodes data and merges it over Default. path is used in errors only.
func Parse(data []byte, format Format, path string) (*Config, error) {
	var raw rawConfig
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, &Error{Path: path, Err: fmt.Errorf("failed to parse YAML: %w", err)}
		}
	default:
		meta, err := toml.Decode(string(data), &raw)
		if err != nil {
			return nil, &Error{Path: path, Err: fmt.Errorf("failed to parse TOML: %w", err)}
		}
		if key, ok := unknownTOMLKey(meta.Undecoded()); ok {
			return nil, &Error{Path: path, Key: key.String(), Err: errors.New("unknown key")}
		}
	}
	return merge(raw, path)
}

// unknownTOMLKey returns the first undecoded key outside rule tables. Nested
// values of a rule table (e.g. `default = { min = 0, max = 1 }`) land in
// map[string]any and toml lists them as undecoded; the rule factories
// validate those.
func unknownTOMLKey(keys []toml.Key) (toml.Key, bool) {
	for _, key := range keys {
		if len(key) > 2 && key[0] == "rules" {
			continue
		}
		return key, true
	}
	return nil, false
}

func merge(raw rawConfig, path string) (*Config, error) {
	cfg := Default()
	cfg.Path = path

	if raw.Files != nil {
		if raw.Files.Extensions != nil {
			exts := make([]string, 0, len(raw.Files.Extensions))
			for _, ext := range raw.Files.Extensions {
				if !strings.HasPrefix(ext, ".") {
					ext = "." + ext
				}
				exts = append(exts, strings.ToLower(ext))
			}
			cfg.Files.Extensions = exts
		}
		if raw.Files.Exclude != nil {
			cfg.Files.Exclude = append([]string(nil), raw.Files.Exclude...)
		}
	}

	for name, table := range raw.Rules {
		rc := RuleConfig{Severity: "warning"}
		for key, value := range table {
			if key == "severity" {
				s, ok := value.(string)
				if !ok {
					return nil, &Error{Path: path, Key: "rules." + name + ".severity", Err: fmt.Errorf("expected a string, got %T", value)}
				}
				rc.Severity = strings.ToLower(s)
				continue
			}
			if rc.Options == nil {
				rc.Options = make(map[string]any, len(table))
			}
			rc.Options[key] = value
		}
		cfg.Rules[name] = rc
	}
	return cfg, nil
}
