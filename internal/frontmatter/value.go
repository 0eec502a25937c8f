package frontmatter

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies which shape a Value holds.
type Kind int

const (
	// KindEmpty is the absent/null value, serialized as "".
	KindEmpty Kind = iota
	// KindString is a plain string scalar.
	KindString
	// KindBool is a boolean scalar (true/yes, false/no).
	KindBool
	// KindInt is an integer scalar.
	KindInt
	// KindList is an ordered list. Items parsed from inline [a, b] syntax are
	// strings; items parsed from "- " block syntax may be small mappings.
	KindList
	// KindMapping is a nested mapping, produced only by "key:" section headers
	// in config-style documents.
	KindMapping
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the shapes the dialect supports. Consumers
// switch on Kind rather than type-asserting an interface.
type Value struct {
	Kind    Kind
	Str     string
	Bool    bool
	Int     int
	Items   []Value
	Mapping *Mapping
}

// Empty returns the empty value.
func Empty() Value {
	return Value{Kind: KindEmpty}
}

// String returns a string value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Int returns an integer value.
func Int(i int) Value {
	return Value{Kind: KindInt, Int: i}
}

// List returns a list value with string items.
func List(items ...string) Value {
	vals := make([]Value, len(items))
	for i, s := range items {
		vals[i] = String(s)
	}
	return Value{Kind: KindList, Items: vals}
}

// ListOf returns a list value with arbitrary items.
func ListOf(items ...Value) Value {
	return Value{Kind: KindList, Items: items}
}

// Map returns a nested-mapping value.
func Map(m *Mapping) Value {
	return Value{Kind: KindMapping, Mapping: m}
}

// Strings returns the list items as strings. Mapping items are skipped.
// Returns nil for non-list values.
func (v Value) Strings() []string {
	if v.Kind != KindList {
		return nil
	}
	out := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		if item.Kind != KindMapping {
			out = append(out, item.text())
		}
	}
	return out
}

// AsString returns the value rendered as display text. Lists and mappings
// render the same way serialization would emit them.
func (v Value) AsString() string {
	return v.text()
}

// AsInt returns the integer value, or def when the value is not an integer.
func (v Value) AsInt(def int) int {
	if v.Kind == KindInt {
		return v.Int
	}
	return def
}

// AsBool returns the boolean value, or def when the value is not a boolean.
func (v Value) AsBool(def bool) bool {
	if v.Kind == KindBool {
		return v.Bool
	}
	return def
}

// IsZero reports whether the value is empty, an empty string, or an empty
// list. Used when deciding whether an optional key carries information.
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindEmpty:
		return true
	case KindString:
		return v.Str == ""
	case KindList:
		return len(v.Items) == 0
	default:
		return false
	}
}

// text renders the value for serialization and display.
func (v Value) text() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindList:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.text()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		if v.Mapping == nil {
			return ""
		}
		pairs := make([]string, 0, v.Mapping.Len())
		for _, k := range v.Mapping.Keys() {
			val, _ := v.Mapping.Get(k)
			pairs = append(pairs, k+": "+val.text())
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	default:
		return ""
	}
}

// Equal reports value equality. Lists compare item-wise in order; nested
// mappings compare key-wise ignoring key order. The empty value and the empty
// string compare equal: the dialect cannot distinguish them on disk.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		vEmpty := v.Kind == KindEmpty || (v.Kind == KindString && v.Str == "")
		oEmpty := other.Kind == KindEmpty || (other.Kind == KindString && other.Str == "")
		return vEmpty && oEmpty
	}
	switch v.Kind {
	case KindEmpty:
		return true
	case KindString:
		return v.Str == other.Str
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return v.Int == other.Int
	case KindList:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.Mapping.Equal(other.Mapping)
	default:
		return false
	}
}

// MarshalJSON renders the value as the natural JSON equivalent: null, string,
// bool, number, array, or object.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindEmpty:
		return []byte(`""`), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInt:
		return json.Marshal(v.Int)
	case KindList:
		if v.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Items)
	case KindMapping:
		return json.Marshal(v.Mapping)
	default:
		return []byte("null"), nil
	}
}
