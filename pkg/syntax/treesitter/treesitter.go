// Package treesitter implements syntax.Engine on top of tree-sitter and its
// C grammar.
package treesitter

import (
	"context"
	"fmt"
	"math"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/praetorian-inc/bpflint/pkg/syntax"
	"github.com/praetorian-inc/bpflint/pkg/types"
)

// setProperty is the predicate tree-sitter queries use to attach
// properties to a pattern.
const setProperty = "set!"

// Engine parses BPF C code with tree-sitter.
//
// Engine is safe for concurrent use: every Parse creates its own parser and
// every Run its own query cursor.
type Engine struct {
	lang *sitter.Language
}

var _ syntax.Engine = (*Engine)(nil)

// New creates an engine for the C grammar.
func New() *Engine {
	return NewWithLanguage(c.GetLanguage())
}

// NewWithLanguage creates an engine for an arbitrary tree-sitter grammar.
func NewWithLanguage(lang *sitter.Language) *Engine {
	return &Engine{lang: lang}
}

// Parse parses code into a tree.
func (e *Engine) Parse(ctx context.Context, code []byte) (syntax.Tree, error) {
	// New parser per call; parsers are not safe for concurrent use.
	parser := sitter.NewParser()
	parser.SetLanguage(e.lang)

	tree, err := parser.ParseCtx(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", syntax.ErrParse, err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, fmt.Errorf("%w: parser returned no tree", syntax.ErrParse)
	}
	return &Tree{tree: tree}, nil
}

// Compile compiles a tree-sitter query.
func (e *Engine) Compile(source string) (syntax.Pattern, error) {
	q, err := sitter.NewQuery([]byte(source), e.lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", syntax.ErrCompile, err)
	}
	return &Pattern{query: q}, nil
}

// Run executes a compiled query over a tree. Text predicates (#eq?,
// #match?, ...) are applied before captures are reported.
func (e *Engine) Run(p syntax.Pattern, t syntax.Tree, code []byte) (syntax.Result, error) {
	pattern, ok := p.(*Pattern)
	if !ok {
		return syntax.Result{}, fmt.Errorf("pattern of type %T was not compiled by this engine", p)
	}
	tree, ok := t.(*Tree)
	if !ok {
		return syntax.Result{}, fmt.Errorf("tree of type %T was not parsed by this engine", t)
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(pattern.query, tree.tree.RootNode())

	var result syntax.Result
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, code)
		for _, capture := range m.Captures {
			result.Captures = append(result.Captures, syntax.Capture{
				PatternIndex: int(m.PatternIndex),
				Name:         pattern.query.CaptureNameForId(capture.Index),
				Node:         wrap(capture.Node),
			})
		}
	}
	// The binding does not expose ts_query_cursor_did_exceed_match_limit,
	// so MatchLimitExceeded is never set by this engine.
	return result, nil
}

// Tree is a parsed tree-sitter tree.
type Tree struct {
	tree *sitter.Tree
}

// Root returns the root node.
func (t *Tree) Root() syntax.Node {
	return wrap(t.tree.RootNode())
}

// Close releases the tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// Pattern is a compiled tree-sitter query.
type Pattern struct {
	query *sitter.Query
}

// PatternCount returns the number of top-level patterns in the query.
func (p *Pattern) PatternCount() int {
	return int(p.query.PatternCount())
}

// PropertySettings returns the `#set!` properties of a pattern in source
// order. Capture-scoped settings (`#set! @capture key value`) are ignored.
func (p *Pattern) PropertySettings(patternIndex int) []syntax.Property {
	idx, err := safecast.Conv[uint32](patternIndex)
	if err != nil {
		return nil
	}

	var props []syntax.Property
	for _, steps := range p.query.PredicatesForPattern(idx) {
		args, ok := p.stringArgs(steps)
		if !ok || len(args) < 2 || args[0] != setProperty {
			continue
		}
		prop := syntax.Property{Key: args[1]}
		if len(args) > 2 {
			prop.Value = args[2]
			prop.HasValue = true
		}
		props = append(props, prop)
	}
	return props
}

// stringArgs resolves the string steps of a predicate. It reports false if
// the predicate references a capture.
func (p *Pattern) stringArgs(steps []sitter.QueryPredicateStep) ([]string, bool) {
	args := make([]string, 0, len(steps))
	for _, step := range steps {
		switch step.Type {
		case sitter.QueryPredicateStepTypeDone:
			return args, true
		case sitter.QueryPredicateStepTypeCapture:
			return nil, false
		case sitter.QueryPredicateStepTypeString:
			args = append(args, p.query.StringValueForId(step.ValueId))
		}
	}
	return args, true
}

// Close releases the query.
func (p *Pattern) Close() {
	p.query.Close()
}

// node adapts *sitter.Node to syntax.Node.
type node struct {
	n *sitter.Node
}

// wrap converts a possibly nil tree-sitter node into a syntax.Node, taking
// care to return an untyped nil.
func wrap(n *sitter.Node) syntax.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

func (n node) Kind() string { return n.n.Type() }

func (n node) StartByte() int { return position(n.n.StartByte()) }

func (n node) EndByte() int { return position(n.n.EndByte()) }

func (n node) PrevSibling() syntax.Node { return wrap(n.n.PrevSibling()) }

func (n node) Parent() syntax.Node { return wrap(n.n.Parent()) }

func (n node) Range() types.Range {
	return types.Range{
		StartByte:  n.StartByte(),
		EndByte:    n.EndByte(),
		StartPoint: point(n.n.StartPoint()),
		EndPoint:   point(n.n.EndPoint()),
	}
}

func point(p sitter.Point) types.Point {
	return types.Point{Row: position(p.Row), Col: position(p.Column)}
}

// position converts a tree-sitter offset to int. Offsets only overflow int
// on 32-bit targets for inputs beyond 2GiB, which we clamp.
func position(v uint32) int {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return math.MaxInt
	}
	return n
}
