package sarif

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

const code = "int x;\n    bpf_probe_read(a, 1, b);\n"

var probeRead = types.Match{
	LintName: "probe-read",
	Message:  "bpf_probe_read() is deprecated",
	Range: types.Range{
		StartByte:  11,
		EndByte:    25,
		StartPoint: types.Point{Row: 1, Col: 4},
		EndPoint:   types.Point{Row: 1, Col: 18},
	},
}

func TestNewReport(t *testing.T) {
	report := NewReport("1.2.3")

	assert.Equal(t, SchemaURI, report.Schema)
	assert.Equal(t, Version, report.Version)
	assert.NotNil(t, report.Runs)
	assert.Len(t, report.Runs, 1)
	assert.Equal(t, ToolName, report.Runs[0].Tool.Driver.Name)
	assert.Equal(t, "1.2.3", report.Runs[0].Tool.Driver.Version)
}

func TestAddRule(t *testing.T) {
	report := NewReport("dev")

	report.AddRule(types.Meta{Name: "probe-read", Message: "bpf_probe_read() is deprecated"})

	assert.Len(t, report.Runs[0].Tool.Driver.Rules, 1)
	sarifRule := report.Runs[0].Tool.Driver.Rules[0]
	assert.Equal(t, "probe-read", sarifRule.ID)
	assert.Equal(t, "probe-read", sarifRule.Name)
	assert.Equal(t, "bpf_probe_read() is deprecated", sarifRule.ShortDescription.Text)
}

func TestAddResult(t *testing.T) {
	report := NewReport("dev")
	report.AddRule(types.Meta{Name: "perf-buff-map"})
	report.AddRule(types.Meta{Name: "probe-read"})

	report.AddResult(probeRead, "/path/to/prog.bpf.c", []byte(code))

	assert.Len(t, report.Runs[0].Results, 1)
	result := report.Runs[0].Results[0]
	assert.Equal(t, "probe-read", result.RuleID)
	assert.Equal(t, 1, result.RuleIndex)
	assert.Equal(t, "warning", result.Level)
	assert.Equal(t, "bpf_probe_read() is deprecated", result.Message.Text)
	assert.Len(t, result.Locations, 1)

	location := result.Locations[0]
	assert.Equal(t, "file:///path/to/prog.bpf.c", location.PhysicalLocation.ArtifactLocation.URI)
	region := location.PhysicalLocation.Region
	assert.Equal(t, 2, region.StartLine)
	assert.Equal(t, 5, region.StartColumn)
	assert.Equal(t, 2, region.EndLine)
	assert.Equal(t, 19, region.EndColumn)
	assert.Equal(t, 11, region.ByteOffset)
	assert.Equal(t, 14, region.ByteLength)
	require.NotNil(t, region.Snippet)
	assert.Equal(t, "bpf_probe_read", region.Snippet.Text)
}

func TestAddResult_UnknownRule(t *testing.T) {
	report := NewReport("dev")

	report.AddResult(probeRead, "prog.bpf.c", []byte(code))
	assert.Equal(t, -1, report.Runs[0].Results[0].RuleIndex)
}

func TestAddResult_NoSnippet(t *testing.T) {
	report := NewReport("dev")

	empty := types.Match{LintName: "l", Message: "m"}
	report.AddResult(empty, "prog.bpf.c", []byte(code))

	// Out of bounds for the given code.
	report.AddResult(probeRead, "prog.bpf.c", []byte("short"))

	// Invalid UTF-8.
	bad := probeRead
	bad.Range = types.Range{StartByte: 0, EndByte: 2, EndPoint: types.Point{Col: 2}}
	report.AddResult(bad, "prog.bpf.c", []byte{0xff, 0xfe})

	for _, result := range report.Runs[0].Results {
		assert.Nil(t, result.Locations[0].PhysicalLocation.Region.Snippet)
	}
}

func TestToJSON(t *testing.T) {
	report := NewReport("dev")
	report.AddRule(types.Meta{Name: "probe-read", Message: "bpf_probe_read() is deprecated"})
	report.AddResult(probeRead, "/test/prog.bpf.c", []byte(code))

	jsonBytes, err := report.ToJSON()
	require.NoError(t, err)

	// Verify it's valid JSON
	var parsed map[string]interface{}
	err = json.Unmarshal(jsonBytes, &parsed)
	require.NoError(t, err)

	// Check schema is present
	assert.Contains(t, parsed, "$schema")
	assert.Equal(t, SchemaURI, parsed["$schema"])

	// Check version
	assert.Equal(t, Version, parsed["version"])
}

func TestToJSON_EmptyRun(t *testing.T) {
	jsonBytes, err := NewReport("dev").ToJSON()
	require.NoError(t, err)

	var parsed struct {
		Runs []struct {
			Results []json.RawMessage `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(jsonBytes, &parsed))
	require.Len(t, parsed.Runs, 1)
	assert.NotNil(t, parsed.Runs[0].Results)
	assert.Empty(t, parsed.Runs[0].Results)
}

func TestRelativePathConversion(t *testing.T) {
	report := NewReport("dev")

	// Test absolute path
	report.AddResult(probeRead, "/absolute/path/prog.bpf.c", nil)
	assert.Equal(t, "file:///absolute/path/prog.bpf.c", report.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)

	// Test relative path
	report.AddResult(probeRead, "relative/path/prog.bpf.c", nil)
	assert.Equal(t, "relative/path/prog.bpf.c", report.Runs[0].Results[1].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}
