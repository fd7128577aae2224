package emptylines

import (
	"fmt"
	"math"
	"sort"

	"emptylines/internal/rules"
)

// Zone names a structural region of a file with its own blank-line policy.
type Zone uint8

const (
	ZoneDefault Zone = iota
	ZoneBOF
	ZoneEOF
	ZoneEOI
)

func (z Zone) String() string {
	switch z {
	case ZoneBOF:
		return "bof"
	case ZoneEOF:
		return "eof"
	case ZoneEOI:
		return "eoi"
	default:
		return "default"
	}
}

// Unbounded is the Max of a zone configured as `{min: N}` without a max.
const Unbounded uint32 = math.MaxUint32

// Bounds is an inclusive [Min, Max] blank-run length.
type Bounds struct {
	Min uint32
	Max uint32
}

// Exactly returns bounds with Min == Max == n.
func Exactly(n uint32) Bounds {
	return Bounds{Min: n, Max: n}
}

func (b Bounds) String() string {
	if b.Max == Unbounded {
		return fmt.Sprintf("{min: %d}", b.Min)
	}
	if b.Min == b.Max {
		return fmt.Sprintf("%d", b.Min)
	}
	return fmt.Sprintf("{min: %d, max: %d}", b.Min, b.Max)
}

// Policy holds the bounds for every zone. It is a value type; each analysis
// works on its own copy.
type Policy struct {
	BOF     Bounds
	EOF     Bounds
	EOI     Bounds
	Default Bounds
}

// DefaultPolicy returns bof=0, eof=1, eoi=2 and default={min: 0, max: 1}.
// The default zone's min is 0, not 1: statements may follow each other with
// no blank line, only runs of two or more blank lines are reported.
func DefaultPolicy() Policy {
	return Policy{
		BOF:     Exactly(0),
		EOF:     Exactly(1),
		EOI:     Exactly(2),
		Default: Bounds{Min: 0, Max: 1},
	}
}

// For returns the bounds governing zone z.
func (p Policy) For(z Zone) Bounds {
	switch z {
	case ZoneBOF:
		return p.BOF
	case ZoneEOF:
		return p.EOF
	case ZoneEOI:
		return p.EOI
	default:
		return p.Default
	}
}

func (p *Policy) set(z Zone, b Bounds) {
	switch z {
	case ZoneBOF:
		p.BOF = b
	case ZoneEOF:
		p.EOF = b
	case ZoneEOI:
		p.EOI = b
	default:
		p.Default = b
	}
}

var zoneKeys = map[string]Zone{
	"bof":     ZoneBOF,
	"eof":     ZoneEOF,
	"eoi":     ZoneEOI,
	"default": ZoneDefault,
}

// ParsePolicy merges decoded options over DefaultPolicy. Every zone value
// is either a non-negative integer (min = max = n) or an object with
// optional `min` / `max`; a missing min means 0 and a missing max means
// Unbounded. Unknown keys, negative or fractional numbers, other shapes and
// min > max are rejected.
func ParsePolicy(options map[string]any) (Policy, error) {
	policy := DefaultPolicy()

	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys) // детерминированный порядок ошибок

	for _, key := range keys {
		if key == "severity" {
			continue
		}
		zone, ok := zoneKeys[key]
		if !ok {
			return Policy{}, &rules.OptionError{Rule: Name, Key: key, Reason: "unknown option (expected bof, eof, eoi or default)"}
		}
		bounds, err := parseBounds(key, options[key])
		if err != nil {
			return Policy{}, err
		}
		policy.set(zone, bounds)
	}
	return policy, nil
}

func parseBounds(key string, raw any) (Bounds, error) {
	if n, ok, err := toCount(raw); ok || err != nil {
		if err != nil {
			return Bounds{}, &rules.OptionError{Rule: Name, Key: key, Reason: err.Error()}
		}
		return Exactly(n), nil
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return Bounds{}, &rules.OptionError{Rule: Name, Key: key, Reason: fmt.Sprintf("expected a number or {min, max} object, got %T", raw)}
	}

	bounds := Bounds{Min: 0, Max: Unbounded}
	for field, value := range obj {
		n, isNum, err := toCount(value)
		if !isNum && err == nil {
			err = fmt.Errorf("expected a number, got %T", value)
		}
		if err != nil {
			return Bounds{}, &rules.OptionError{Rule: Name, Key: key + "." + field, Reason: err.Error()}
		}
		switch field {
		case "min":
			bounds.Min = n
		case "max":
			bounds.Max = n
		default:
			return Bounds{}, &rules.OptionError{Rule: Name, Key: key + "." + field, Reason: "unknown field (expected min or max)"}
		}
	}
	if bounds.Min > bounds.Max {
		return Bounds{}, &rules.OptionError{Rule: Name, Key: key, Reason: fmt.Sprintf("min (%d) is greater than max (%d)", bounds.Min, bounds.Max)}
	}
	return bounds, nil
}

// toCount converts the numeric types produced by TOML, YAML and JSON
// decoders. ok is false when raw is not a number at all.
func toCount(raw any) (n uint32, ok bool, err error) {
	var v float64
	switch x := raw.(type) {
	case int:
		v = float64(x)
	case int8:
		v = float64(x)
	case int16:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint:
		v = float64(x)
	case uint8:
		v = float64(x)
	case uint16:
		v = float64(x)
	case uint32:
		v = float64(x)
	case uint64:
		v = float64(x)
	case float32:
		v = float64(x)
	case float64:
		v = x
	default:
		return 0, false, nil
	}
	switch {
	case v < 0:
		return 0, true, fmt.Errorf("must not be negative, got %v", raw)
	case v != math.Trunc(v):
		return 0, true, fmt.Errorf("must be an integer, got %v", raw)
	case v >= float64(Unbounded):
		return 0, true, fmt.Errorf("value %v is too large", raw)
	}
	return uint32(v), true, nil
}
