// Package syntax defines the parsing and query capabilities the linter
// needs from a structural parsing engine.
//
// Matching, suppression, ordering and rendering only depend on these
// interfaces. The tree-sitter implementation lives in the treesitter
// subpackage; syntaxtest provides an in-memory fake.
package syntax

import (
	"context"
	"errors"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// KindComment is the node kind of source comments.
const KindComment = "comment"

var (
	// ErrParse is returned when source code cannot be parsed at all.
	ErrParse = errors.New("failed to parse source code")

	// ErrCompile is returned when a pattern fails to compile.
	ErrCompile = errors.New("failed to compile lint query")
)

// Node is a read-only view of a syntax tree node.
//
// PrevSibling and Parent return a nil interface (never a typed nil) when no
// such node exists.
type Node interface {
	Kind() string
	StartByte() int
	EndByte() int
	Range() types.Range
	PrevSibling() Node
	Parent() Node
}

// Tree is a parsed source file. It is owned by the invocation that parsed it.
type Tree interface {
	Root() Node
	Close()
}

// Property is a key/value setting attached to a pattern, e.g. the
// `(#set! message "...")` of a tree-sitter query.
type Property struct {
	Key      string
	Value    string
	HasValue bool
}

// Pattern is a compiled query. A query source may contain several patterns,
// each identified by its index.
type Pattern interface {
	PatternCount() int
	PropertySettings(patternIndex int) []Property
	Close()
}

// Capture is a node bound by a successful pattern match.
type Capture struct {
	PatternIndex int
	Name         string
	Node         Node
}

// Result holds the captures of one pattern execution.
type Result struct {
	Captures []Capture

	// MatchLimitExceeded is set when the engine dropped in-progress matches
	// because it hit its internal limit. Captures may be incomplete.
	MatchLimitExceeded bool
}

// Engine parses source code and executes compiled patterns against it.
type Engine interface {
	// Parse parses code into a tree. Errors wrap ErrParse.
	Parse(ctx context.Context, code []byte) (Tree, error)

	// Compile compiles a pattern source for the engine's grammar.
	// Errors wrap ErrCompile.
	Compile(source string) (Pattern, error)

	// Run executes p over t. code must be the bytes t was parsed from.
	Run(p Pattern, t Tree, code []byte) (Result, error)
}

// Text returns the source bytes spanned by n.
func Text(n Node, code []byte) []byte {
	start, end := n.StartByte(), n.EndByte()
	if start < 0 || end > len(code) || start > end {
		return nil
	}
	return code[start:end]
}

// LookupProperty returns the first property with the given key.
func LookupProperty(props []Property, key string) (Property, bool) {
	for _, p := range props {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}
