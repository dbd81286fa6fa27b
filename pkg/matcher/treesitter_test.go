package matcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/bpflint/pkg/lint"
	"github.com/praetorian-inc/bpflint/pkg/syntax/treesitter"
	"github.com/praetorian-inc/bpflint/pkg/types"
)

const schedSwitch = `
// sched_switch tracepoint
int handle__sched_switch(u64 *ctx)
{
    struct task_struct *prev = (struct task_struct *)ctx[1];
    struct event event = {0};
    bpf_probe_read(event.comm, TASK_COMM_LEN, prev->comm);
    return 0;
}
`

func newBuiltin(t *testing.T) *Matcher {
	t.Helper()
	c, err := lint.Builtin()
	require.NoError(t, err)
	m, err := New(Config{Engine: treesitter.New(), Catalog: c})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestBuiltin_Compiles(t *testing.T) {
	m := newBuiltin(t)

	lints := m.Lints()
	require.Len(t, lints, 4)
	for _, l := range lints {
		assert.NotEmpty(t, l.Message, l.Name)
	}
}

func TestBuiltin_ProbeRead(t *testing.T) {
	m := newBuiltin(t)

	matches, err := m.Match(context.Background(), []byte(schedSwitch))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	got := matches[0]
	assert.Equal(t, "probe-read", got.LintName)
	assert.True(t, strings.HasPrefix(got.Message, "bpf_probe_read() is deprecated"), got.Message)
	assert.Equal(t, "bpf_probe_read", schedSwitch[got.Range.StartByte:got.Range.EndByte])
	assert.Equal(t, types.Point{Row: 6, Col: 4}, got.Range.StartPoint)
	assert.Equal(t, types.Point{Row: 6, Col: 18}, got.Range.EndPoint)
}

func TestBuiltin_PrefilterEquivalence(t *testing.T) {
	corpus := []string{
		schedSwitch,
		"SEC(\"kprobe/cap_capable\")\nint BPF_KPROBE(handler) {\n}\n",
		"SEC(\"kretprobe/cap_capable\")\nint BPF_KRETPROBE(handler) {\n}\n",
		"SEC(\"fentry/do_nanosleep\")\nint nanosleep(void *ctx) {\n}\n",
		"SEC(\"fentry.s/do_nanosleep\")\nint nanosleep(void *ctx) {\n}\n",
		"SEC(\"fexit.s/do_nanosleep\")\nint nanosleep(void *ctx) {\n}\n",
		"struct {\n  int a;\n  __uint(type, BPF_MAP_TYPE_PERF_EVENT_ARRAY);\n} name;\n",
		"struct {\n    int a;\n    __uint(key_size, sizeof(b));\n} name;\n",
		"int x = 1;\n",
	}

	c, err := lint.Builtin()
	require.NoError(t, err)
	unfiltered, err := New(Config{Engine: treesitter.New(), Catalog: c, DisablePrefilter: true})
	require.NoError(t, err)
	defer unfiltered.Close()
	filtered := newBuiltin(t)

	seen := make(map[string]bool)
	for _, code := range corpus {
		want, err := unfiltered.Match(context.Background(), []byte(code))
		require.NoError(t, err)
		got, err := filtered.Match(context.Background(), []byte(code))
		require.NoError(t, err)
		assert.Equal(t, want, got, code)

		for _, m := range want {
			seen[m.LintName] = true
		}
	}

	// Every builtin lint is covered by the corpus.
	for _, l := range filtered.Lints() {
		assert.True(t, seen[l.Name], "no match for %s", l.Name)
	}
}

func TestBuiltin_Idempotent(t *testing.T) {
	m := newBuiltin(t)

	first, err := m.Match(context.Background(), []byte(schedSwitch))
	require.NoError(t, err)
	second, err := m.Match(context.Background(), []byte(schedSwitch))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuiltin_Suppression(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		matches int
	}{
		{
			name: "directive before statement",
			code: `
int handler(void *ctx)
{
    /* bpflint: disable=probe-read */
    bpf_probe_read(dst, 4, src);
    return 0;
}
`,
			matches: 0,
		},
		{
			name: "directive before nested block",
			code: `
int handler(void *ctx)
{
    /* bpflint: disable=probe-read */
    {
        {
            bpf_probe_read(dst, 4, src);
        }
    }
    return 0;
}
`,
			matches: 0,
		},
		{
			name: "line comment disabling all before function",
			code: `
// bpflint: disable=all
int handler(void *ctx)
{
    bpf_probe_read(dst, 4, src);
    return 0;
}
`,
			matches: 0,
		},
		{
			name: "misspelled directive",
			code: `
int handler(void *ctx)
{
    /* bpflint: disabled=probe-read */
    bpf_probe_read(dst, 4, src);
    return 0;
}
`,
			matches: 1,
		},
		{
			name: "directive for another lint",
			code: `
int handler(void *ctx)
{
    /* bpflint: disable=perf-buff-map */
    bpf_probe_read(dst, 4, src);
    return 0;
}
`,
			matches: 1,
		},
		{
			name: "directive separated by another statement",
			code: `
int handler(void *ctx)
{
    /* bpflint: disable=probe-read */
    int x = 0;
    bpf_probe_read(dst, 4, src);
    return x;
}
`,
			matches: 1,
		},
		{
			name: "only the directed call is suppressed",
			code: `
int handler(void *ctx)
{
    /* bpflint: disable=probe-read */
    bpf_probe_read(dst, 4, src);
    bpf_probe_read(dst, 4, src);
    return 0;
}
`,
			matches: 1,
		},
	}

	m := newBuiltin(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := m.Match(context.Background(), []byte(tt.code))
			require.NoError(t, err)
			assert.Len(t, matches, tt.matches)
		})
	}
}

func TestTreesitter_MissingMessage(t *testing.T) {
	c := catalog(t, types.Definition{
		Name: "test-fn",
		Source: `
(call_expression
    function: (identifier) @function (#eq? @function "test_fn")
)`,
	})

	_, err := New(Config{Engine: treesitter.New(), Catalog: c})
	require.Error(t, err)
	assert.Equal(t, "test-fn: failed to find `message` property", err.Error())
}

func TestTreesitter_InvalidQuery(t *testing.T) {
	c := catalog(t, types.Definition{Name: "broken", Source: "(call_expression"})

	_, err := New(Config{Engine: treesitter.New(), Catalog: c})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "broken", cfgErr.Lint)
}
