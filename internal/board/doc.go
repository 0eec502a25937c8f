// Package board implements the kanban task store.
//
// The directory tree is the database. Each column in config.yaml is a
// directory under the board root, each task a markdown file named
// "NNN-slug.md" inside its column, and moving a task between columns is a
// file rename. Comments live under comments/{taskID}/ with timestamp-prefixed
// filenames so lexical order is chronological order.
//
// Nothing is cached between operations: every call reads authoritative state
// from disk, so the tree can be hand-edited or inspected by other tools
// between requests. The store assumes a single writer; ID allocation reads
// then writes without locking.
package board
