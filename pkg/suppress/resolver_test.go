package suppress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/bpflint/pkg/syntax"
	"github.com/praetorian-inc/bpflint/pkg/syntax/syntaxtest"
	"github.com/praetorian-inc/bpflint/pkg/types"
)

// span returns a node of kind covering the first occurrence of text.
func span(t *testing.T, code, kind, text string) *syntaxtest.Node {
	t.Helper()
	start := strings.Index(code, text)
	require.GreaterOrEqual(t, start, 0, "%q not found", text)
	return syntaxtest.NewNode(kind, types.Range{StartByte: start, EndByte: start + len(text)})
}

func TestResolver_PrecedingComment(t *testing.T) {
	code := "{ /* bpflint: disable=probe-read */ bpf_probe_read(a); }"

	call := span(t, code, "call_expression", "bpf_probe_read(a)")
	ident := span(t, code, "identifier", "bpf_probe_read")
	call.Add(ident)
	block := span(t, code, "compound_statement", code)
	block.Add(span(t, code, syntax.KindComment, "/* bpflint: disable=probe-read */"), call)

	r := NewResolver([]byte(code), nil)
	assert.True(t, r.Suppressed(ident, "probe-read"))
	assert.False(t, r.Suppressed(ident, "perf-buff-map"))
}

func TestResolver_EnclosingBlockAtAnyDepth(t *testing.T) {
	code := "// bpflint: disable=all\n{ { x(); } }"

	ident := span(t, code, "identifier", "x")
	inner := span(t, code, "compound_statement", "{ x(); }").Add(span(t, code, "call_expression", "x()").Add(ident))
	outer := span(t, code, "compound_statement", "{ { x(); } }").Add(inner)
	syntaxtest.NewNode("translation_unit", types.Range{EndByte: len(code)}).
		Add(span(t, code, syntax.KindComment, "// bpflint: disable=all"), outer)

	r := NewResolver([]byte(code), nil)
	assert.True(t, r.Suppressed(ident, "probe-read"))
	assert.True(t, r.Suppressed(ident, "unstable-attach-point"))
}

func TestResolver_OnlyImmediateSibling(t *testing.T) {
	code := "/* bpflint: disable=probe-read */ int a; bpf_probe_read(a);"

	ident := span(t, code, "identifier", "bpf_probe_read")
	syntaxtest.NewNode("translation_unit", types.Range{EndByte: len(code)}).Add(
		span(t, code, syntax.KindComment, "/* bpflint: disable=probe-read */"),
		span(t, code, "declaration", "int a;"),
		span(t, code, "expression_statement", "bpf_probe_read(a);").Add(ident),
	)

	r := NewResolver([]byte(code), nil)
	assert.False(t, r.Suppressed(ident, "probe-read"))
}

func TestResolver_NonDirectiveComment(t *testing.T) {
	code := "/* bpflint: disabled=probe-read */ bpf_probe_read(a);"

	ident := span(t, code, "identifier", "bpf_probe_read")
	syntaxtest.NewNode("translation_unit", types.Range{EndByte: len(code)}).Add(
		span(t, code, syntax.KindComment, "/* bpflint: disabled=probe-read */"),
		span(t, code, "expression_statement", "bpf_probe_read(a);").Add(ident),
	)

	r := NewResolver([]byte(code), nil)
	assert.False(t, r.Suppressed(ident, "probe-read"))
}

func TestResolver_RootWithoutDirective(t *testing.T) {
	root := syntaxtest.NewNode("translation_unit", types.Range{})

	r := NewResolver(nil, nil)
	assert.False(t, r.Suppressed(root, "probe-read"))
}

func TestResolver_InvalidUTF8Comment(t *testing.T) {
	code := "/* bpflint: disable=all \xff */ x;"

	ident := span(t, code, "identifier", "x")
	syntaxtest.NewNode("translation_unit", types.Range{EndByte: len(code)}).Add(
		span(t, code, syntax.KindComment, "/* bpflint: disable=all \xff */"),
		span(t, code, "expression_statement", "x;").Add(ident),
	)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	r := NewResolver([]byte(code), logger)
	assert.False(t, r.Suppressed(ident, "probe-read"))
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "not valid UTF-8")
	assert.Contains(t, logs.String(), "lint=probe-read")
}
