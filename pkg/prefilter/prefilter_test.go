package prefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

func TestPrefilter_LintsWithMatchingKeywords(t *testing.T) {
	defs := []types.Definition{
		{Name: "probe-read", Keywords: []string{"bpf_probe_read"}},
		{Name: "perf-buff-map", Keywords: []string{"BPF_MAP_TYPE_PERF_EVENT_ARRAY"}},
	}

	pf := New(defs)
	content := []byte("bpf_probe_read(dst, 4, src);")

	assert.Equal(t, []int{0}, pf.Select(content))
}

func TestPrefilter_LintsWithoutKeywords(t *testing.T) {
	defs := []types.Definition{
		{Name: "first"},
		{Name: "second"},
	}

	pf := New(defs)

	// No keywords = always check
	assert.Equal(t, []int{0, 1}, pf.Select([]byte("int x;")))
	assert.Empty(t, pf.Keywords())
}

func TestPrefilter_LintsWithNonMatchingKeywords(t *testing.T) {
	defs := []types.Definition{
		{Name: "probe-read", Keywords: []string{"bpf_probe_read"}},
		{Name: "untyped-map-member", Keywords: []string{"__uint"}},
	}

	pf := New(defs)

	assert.Empty(t, pf.Select([]byte("int main(void) { return 0; }")))
}

func TestPrefilter_PreservesCatalogOrder(t *testing.T) {
	defs := []types.Definition{
		{Name: "unstable-attach-point", Keywords: []string{"kprobe/", "fentry/"}},
		{Name: "always"},
		{Name: "untyped-map-member", Keywords: []string{"__uint"}},
		{Name: "perf-buff-map", Keywords: []string{"__uint"}},
	}

	pf := New(defs)
	// Keywords appear in reverse catalog order in the content.
	content := []byte("__uint(key_size, 4);\nSEC(\"fentry/x\")")

	assert.Equal(t, []int{0, 1, 2, 3}, pf.Select(content))
	assert.Equal(t, []string{"kprobe/", "fentry/", "__uint"}, pf.Keywords())
}

func TestPrefilter_EmptyContent(t *testing.T) {
	defs := []types.Definition{
		{Name: "probe-read", Keywords: []string{"bpf_probe_read"}},
		{Name: "always"},
	}

	pf := New(defs)

	// Empty content should only return lints with no keywords
	assert.Equal(t, []int{1}, pf.Select(nil))
}

func TestPrefilter_MultipleKeywordsPerLint(t *testing.T) {
	defs := []types.Definition{
		{Name: "unstable-attach-point", Keywords: []string{"kprobe/", "kretprobe/", "fentry/", "fexit/"}},
	}

	pf := New(defs)

	for _, keyword := range defs[0].Keywords {
		content := []byte(`SEC("` + keyword + `do_nanosleep")`)
		assert.Equal(t, []int{0}, pf.Select(content), "Should match keyword: %s", keyword)
	}
}

func TestPrefilter_CaseSensitive(t *testing.T) {
	defs := []types.Definition{
		{Name: "probe-read", Keywords: []string{"bpf_probe_read"}},
	}

	pf := New(defs)

	assert.Empty(t, pf.Select([]byte("BPF_PROBE_READ")))
	assert.Equal(t, []int{0}, pf.Select([]byte("bpf_probe_read")))
}

func TestPrefilter_NoLints(t *testing.T) {
	pf := New(nil)
	assert.Empty(t, pf.Select([]byte("test content")))
}
