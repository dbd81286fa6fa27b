// Package syntaxtest provides an in-memory syntax.Engine for tests that
// should not depend on a real grammar.
package syntaxtest

import (
	"context"
	"fmt"

	"github.com/praetorian-inc/bpflint/pkg/syntax"
	"github.com/praetorian-inc/bpflint/pkg/types"
)

// Node is a hand-built tree node.
type Node struct {
	Type string
	Span types.Range

	parent   *Node
	children []*Node
}

var _ syntax.Node = (*Node)(nil)

// NewNode creates a node of the given kind spanning r.
func NewNode(kind string, r types.Range) *Node {
	return &Node{Type: kind, Span: r}
}

// Add appends children to n and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *Node) Kind() string { return n.Type }

func (n *Node) StartByte() int { return n.Span.StartByte }

func (n *Node) EndByte() int { return n.Span.EndByte }

func (n *Node) Range() types.Range { return n.Span }

func (n *Node) PrevSibling() syntax.Node {
	if n.parent == nil {
		return nil
	}
	for i, c := range n.parent.children {
		if c == n && i > 0 {
			return n.parent.children[i-1]
		}
	}
	return nil
}

func (n *Node) Parent() syntax.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Tree wraps a root node.
type Tree struct {
	root   *Node
	Closed bool
}

// Root returns the root node.
func (t *Tree) Root() syntax.Node { return t.root }

// Close marks the tree as closed.
func (t *Tree) Close() { t.Closed = true }

// Pattern is a canned compiled pattern. Run returns Captures verbatim.
type Pattern struct {
	Count         int
	Properties    map[int][]syntax.Property
	Captures      []syntax.Capture
	LimitExceeded bool
	Closed        bool
}

// Message returns a single-pattern Pattern carrying a message property.
func Message(msg string, captures ...syntax.Capture) *Pattern {
	return &Pattern{
		Count: 1,
		Properties: map[int][]syntax.Property{
			0: {{Key: "message", Value: msg, HasValue: true}},
		},
		Captures: captures,
	}
}

func (p *Pattern) PatternCount() int { return p.Count }

func (p *Pattern) PropertySettings(patternIndex int) []syntax.Property {
	return p.Properties[patternIndex]
}

func (p *Pattern) Close() { p.Closed = true }

// Engine is a fake engine. Compile looks sources up in Patterns; Parse
// returns a tree rooted at Root.
type Engine struct {
	Root     *Node
	ParseErr error
	Patterns map[string]*Pattern
}

var _ syntax.Engine = (*Engine)(nil)

// Parse returns a tree for e.Root, or ParseErr wrapped in syntax.ErrParse.
func (e *Engine) Parse(ctx context.Context, _ []byte) (syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", syntax.ErrParse, err)
	}
	if e.ParseErr != nil {
		return nil, fmt.Errorf("%w: %w", syntax.ErrParse, e.ParseErr)
	}
	root := e.Root
	if root == nil {
		root = NewNode("translation_unit", types.Range{})
	}
	return &Tree{root: root}, nil
}

// Compile returns the canned pattern registered for source.
func (e *Engine) Compile(source string) (syntax.Pattern, error) {
	p, ok := e.Patterns[source]
	if !ok {
		return nil, fmt.Errorf("%w: unknown pattern %q", syntax.ErrCompile, source)
	}
	return p, nil
}

// Run returns the canned captures of p.
func (e *Engine) Run(p syntax.Pattern, _ syntax.Tree, _ []byte) (syntax.Result, error) {
	pattern, ok := p.(*Pattern)
	if !ok {
		return syntax.Result{}, fmt.Errorf("pattern of type %T was not compiled by this engine", p)
	}
	return syntax.Result{
		Captures:           pattern.Captures,
		MatchLimitExceeded: pattern.LimitExceeded,
	}, nil
}

// Capture builds a capture of node for pattern 0.
func Capture(name string, node *Node) syntax.Capture {
	return syntax.Capture{Name: name, Node: node}
}

// Span builds a single-line range on row.
func Span(startByte, endByte, row, startCol, endCol int) types.Range {
	return types.Range{
		StartByte:  startByte,
		EndByte:    endByte,
		StartPoint: types.Point{Row: row, Col: startCol},
		EndPoint:   types.Point{Row: row, Col: endCol},
	}
}
