// Package frontmatter implements the restricted YAML dialect used by mdboard
// markdown files and the ----delimited frontmatter block that embeds it.
//
// The dialect is deliberately small: scalar values are strings, booleans,
// integers, inline lists ([a, b, c]), or empty. Mappings are flat key: value
// lines, with two one-level extensions needed by config.yaml: a bare "key:"
// line opens a nested mapping section, and "- " items under a key accumulate
// into a list whose items may themselves be small inline mappings continued
// over subsequent indented lines.
//
// Parsing is permissive and never fails. Malformed scalars come back verbatim
// as strings, and a document without a valid frontmatter block degrades to an
// empty mapping with the whole text as body. Nesting deeper than one level is
// not supported; lines that would require it are interpreted with the flat
// rules above, not rejected.
//
// The round-trip contract: for any mapping built from the supported value
// shapes, ParseDocument(SerializeDocument(m, body)) yields a value-equal
// mapping and the same body. Exact text formatting is not preserved.
package frontmatter
