// Package config loads the linter configuration from emptylines.toml or
// .emptylines.yaml and turns it into configured rules.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"emptylines/internal/diag"
	"emptylines/internal/rules"
)

// ErrInvalid is wrapped by every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Error points at the offending key of a configuration file.
type Error struct {
	Path string // config file, empty for built-in defaults
	Key  string // dotted key path, e.g. "rules.empty-lines.eof"
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Key != "" {
		sb.WriteString(e.Key)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every *Error match ErrInvalid.
func (e *Error) Is(target error) bool { return target == ErrInvalid }

// SeverityOff disables a rule.
const SeverityOff = "off"

// Files selects the files a directory walk visits.
type Files struct {
	Extensions []string `toml:"extensions" yaml:"extensions" json:"extensions"`
	Exclude    []string `toml:"exclude" yaml:"exclude" json:"exclude"`
}

// RuleConfig is one `[rules.<name>]` table.
type RuleConfig struct {
	Severity string         `json:"severity"`
	Options  map[string]any `json:"options,omitempty"`
}

// Config is a validated configuration.
type Config struct {
	// Path is the file the configuration came from; empty for defaults.
	Path string `json:"-"`
	// Root is the project root: the directory holding the config file.
	Root  string                `json:"-"`
	Files Files                 `json:"files"`
	Rules map[string]RuleConfig `json:"rules"`
}

// DefaultExtensions are the source extensions linted by default.
func DefaultExtensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}
}

// DefaultExclude are directory names skipped by default.
func DefaultExclude() []string {
	return []string{"node_modules", "dist"}
}

// Default enables empty-lines at warning level with its default policy.
// no-relative-parent-imports is off until configured.
func Default() *Config {
	return &Config{
		Files: Files{
			Extensions: DefaultExtensions(),
			Exclude:    DefaultExclude(),
		},
		Rules: map[string]RuleConfig{
			"empty-lines":                {Severity: "warning"},
			"no-relative-parent-imports": {Severity: SeverityOff},
		},
	}
}

// RuleNames returns configured rule names in sorted order.
func (c *Config) RuleNames() []string {
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates every enabled rule. Any invalid option fails the whole
// configuration; nothing is linted with a half-valid setup.
func (c *Config) Build(reg *rules.Registry) ([]rules.Enabled, error) {
	var enabled []rules.Enabled
	for _, name := range c.RuleNames() {
		rc := c.Rules[name]
		if strings.EqualFold(rc.Severity, SeverityOff) {
			if _, err := reg.Build(name, rc.Options); err != nil {
				return nil, c.errorf("rules."+name, err)
			}
			continue
		}
		sev, err := diag.ParseSeverity(rc.Severity)
		if err != nil {
			return nil, c.errorf("rules."+name+".severity", err)
		}
		rule, err := reg.Build(name, rc.Options)
		if err != nil {
			return nil, c.errorf("rules."+name, err)
		}
		enabled = append(enabled, rules.Enabled{Rule: rule, Severity: sev})
	}
	return enabled, nil
}

// Fingerprint identifies the effective configuration; cached results are
// valid only for the fingerprint they were produced with.
func (c *Config) Fingerprint() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *Config) errorf(key string, err error) error {
	return &Error{Path: c.Path, Key: key, Err: err}
}
