package frontmatter

import "strings"

// keyOrder is the preferred serialization order for well-known keys. Keys not
// listed here are appended afterwards in their mapping's insertion order.
var keyOrder = []string{
	"id", "title", "author", "assignee", "scopes", "tags",
	"created", "updated", "revision", "due", "branch", "completed", "related",
}

// FormatValue renders a value as its serialized text: booleans as true/false,
// lists as [a, b], empty as "", everything else via string conversion. List
// items are not individually quoted, so items containing commas do not
// round-trip.
func FormatValue(v Value) string {
	if v.Kind == KindEmpty || (v.Kind == KindString && v.Str == "") {
		return `""`
	}
	return v.text()
}

// SerializeMapping emits key: value lines, well-known keys first in the
// preferred order, remaining keys in insertion order. The result ends with a
// newline unless the mapping is empty.
func SerializeMapping(m *Mapping) string {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, k := range keyOrder {
		if v, ok := m.Get(k); ok {
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(FormatValue(v))
			b.WriteByte('\n')
			seen[k] = true
		}
	}
	for _, k := range m.Keys() {
		if seen[k] {
			continue
		}
		v, _ := m.Get(k)
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(FormatValue(v))
		b.WriteByte('\n')
	}
	return b.String()
}

// SerializeDocument joins a mapping and body into a complete markdown
// document with a ----delimited frontmatter block.
func SerializeDocument(m *Mapping, body string) string {
	var b strings.Builder
	b.WriteString(marker)
	b.WriteByte('\n')
	b.WriteString(SerializeMapping(m))
	b.WriteString(marker)
	b.WriteByte('\n')
	b.WriteString(body)
	return b.String()
}
