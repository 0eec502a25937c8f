package frontmatter

import (
	"strconv"
	"strings"
)

// marker delimits the frontmatter block.
const marker = "---"

// ParseScalar parses a single scalar in the restricted dialect. Every input
// yields some value; there is no error path. Recognized shapes, in order:
// empty (or a bare quote pair), boolean (true/yes/false/no, any case), inline
// list ([a, b, c]), integer, quoted string, plain string.
func ParseScalar(raw string) Value {
	val := strings.TrimSpace(raw)
	if val == "" || val == `""` || val == "''" {
		return String("")
	}
	switch strings.ToLower(val) {
	case "true", "yes":
		return Bool(true)
	case "false", "no":
		return Bool(false)
	}
	if strings.HasPrefix(val, "[") && strings.HasSuffix(val, "]") {
		inner := val[1 : len(val)-1]
		if strings.TrimSpace(inner) == "" {
			return List()
		}
		parts := strings.Split(inner, ",")
		items := make([]string, len(parts))
		for i, p := range parts {
			items[i] = strings.Trim(strings.Trim(strings.TrimSpace(p), `"`), "'")
		}
		return List(items...)
	}
	if n, err := strconv.Atoi(val); err == nil {
		return Int(n)
	}
	if len(val) >= 2 {
		if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
			return String(val[1 : len(val)-1])
		}
	}
	return String(val)
}

// ParseMapping parses the line-oriented mapping dialect: flat key: value
// pairs, "key:" section headers opening a one-level nested mapping, and "- "
// list items that may be small inline mappings extended by more deeply
// indented continuation lines. It is a single forward scan, not a general
// YAML parser; nesting beyond one level is unsupported.
func ParseMapping(text string) *Mapping {
	result := NewMapping()
	var currentKey string
	haveKey := false
	var currentList []Value

	flushList := func() {
		if haveKey && currentList != nil {
			result.Set(currentKey, ListOf(currentList...))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		// List item under an open key.
		if strings.HasPrefix(stripped, "- ") && haveKey && indent > 0 {
			itemVal := strings.TrimSpace(stripped[2:])
			if k, v, ok := strings.Cut(itemVal, ":"); ok {
				item := NewMapping()
				item.Set(strings.TrimSpace(k), ParseScalar(v))
				currentList = append(currentList, Map(item))
			} else {
				currentList = append(currentList, ParseScalar(itemVal))
			}
			flushList()
			continue
		}

		// Continuation key: value attaching to the last list-item mapping.
		if len(currentList) > 0 && indent >= 4 && strings.Contains(stripped, ":") && !strings.HasPrefix(stripped, "- ") {
			last := currentList[len(currentList)-1]
			if last.Kind == KindMapping {
				k, v, _ := strings.Cut(stripped, ":")
				last.Mapping.Set(strings.TrimSpace(k), ParseScalar(v))
				flushList()
				continue
			}
		}

		if k, v, ok := strings.Cut(stripped, ":"); ok {
			k = strings.TrimSpace(k)
			v = strings.TrimSpace(v)
			if v == "" {
				// Section header opening a nested mapping.
				currentKey = k
				haveKey = true
				currentList = nil
				if !result.Has(k) {
					result.Set(k, Map(NewMapping()))
				}
			} else if indent > 0 && haveKey {
				if section, ok := result.Get(currentKey); ok && section.Kind == KindMapping {
					section.Mapping.Set(k, ParseScalar(v))
					continue
				}
				result.Set(k, ParseScalar(v))
				haveKey = false
				currentList = nil
			} else {
				result.Set(k, ParseScalar(v))
				haveKey = false
				currentList = nil
			}
		}
	}
	return result
}

// ParseDocument splits markdown content into its frontmatter mapping and body.
// Content without a leading --- marker, or without a closing marker, comes
// back unchanged as the body with an empty mapping. Malformed frontmatter is
// never an error.
func ParseDocument(text string) (*Mapping, string) {
	if !strings.HasPrefix(text, marker) {
		return NewMapping(), text
	}
	parts := strings.SplitN(text, marker, 3)
	if len(parts) < 3 {
		return NewMapping(), text
	}
	meta := ParseMapping(parts[1])
	body := strings.TrimLeft(parts[2], "\n")
	return meta, body
}
