// Package types defines the core data structures of the family tree: people,
// the raw rows they are read from, the three primitive kinship links, and the
// relationship tags derived from them.
package types
