// Package report renders lint matches for humans and machines.
package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// styles holds color formatters for terminal output.
type styles struct {
	warning  *color.Color
	lintName *color.Color
	gutter   *color.Color
	marker   *color.Color
}

func newStyles(enabled bool) *styles {
	s := &styles{
		warning:  color.New(color.Bold, color.FgYellow),
		lintName: color.New(color.Bold, color.FgHiWhite),
		gutter:   color.New(color.Bold, color.FgHiBlue),
		marker:   color.New(color.Bold, color.FgYellow),
	}

	for _, c := range []*color.Color{s.warning, s.lintName, s.gutter, s.marker} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// TerminalRenderer writes compiler-style diagnostics.
//
//	warning: [probe-read] bpf_probe_read() is deprecated
//	  --> example.bpf.c:6:4
//	  |
//	6 |     bpf_probe_read(event.comm, TASK_COMM_LEN, prev->comm);
//	  |     ^^^^^^^^^^^^^^
//	  |
type TerminalRenderer struct {
	styles *styles
	logger *slog.Logger
}

// NewTerminalRenderer creates a renderer. With colorize set, the header,
// gutter and markers are highlighted with ANSI escapes. A nil logger
// means slog.Default().
func NewTerminalRenderer(colorize bool, logger *slog.Logger) *TerminalRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TerminalRenderer{styles: newStyles(colorize), logger: logger}
}

// Terminal writes m without color. code is the source m was found in and
// path labels it in the location line.
func Terminal(w io.Writer, m types.Match, code []byte, path string) error {
	return NewTerminalRenderer(false, nil).Render(w, m, code, path)
}

// Render writes the diagnostic for m to w in a single Write call.
func (r *TerminalRenderer) Render(w io.Writer, m types.Match, code []byte, path string) error {
	var buf bytes.Buffer
	s := r.styles
	rng := m.Range
	startRow, startCol := rng.StartPoint.Row, rng.StartPoint.Col
	endRow, endCol := rng.EndPoint.Row, rng.EndPoint.Col

	fmt.Fprintf(&buf, "%s [%s] %s\n", s.warning.Sprint("warning:"), s.lintName.Sprint(m.LintName), m.Message)
	fmt.Fprintf(&buf, "  %s %s:%d:%d\n", s.gutter.Sprint("-->"), path, startRow, startCol)

	if !rng.Empty() {
		// The end row is the largest number, so it sizes the gutter.
		width := len(strconv.Itoa(endRow))
		prefix := s.gutter.Sprintf("%*s | ", width, "")
		buf.WriteString(prefix + "\n")

		ls := newLines(code, rng.StartByte)
		if startRow == endRow {
			line, _ := ls.next()
			fmt.Fprintf(&buf, "%s%s\n", s.gutter.Sprintf("%d | ", startRow), r.decode(line, m.LintName))
			carets := strings.Repeat("^", max(1, endCol-startCol))
			fmt.Fprintf(&buf, "%s%s%s\n", prefix, strings.Repeat(" ", max(0, startCol)), s.marker.Sprint(carets))
		} else {
			// Rows are printed unpadded, so shorter row numbers shift left.
			for row := startRow; row <= endRow; row++ {
				edge := "|"
				if row == startRow {
					edge = "/"
				}
				line, _ := ls.next()
				fmt.Fprintf(&buf, "%s %s %s\n",
					s.gutter.Sprintf("%d | ", row), s.marker.Sprint(edge), r.decode(line, m.LintName))
			}
			underline := " |" + strings.Repeat("_", max(0, endCol)) + "^"
			fmt.Fprintf(&buf, "%s%s\n", prefix, s.marker.Sprint(underline))
		}

		buf.WriteString(prefix + "\n")
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// decode prepares a source line for display. A trailing carriage return
// is dropped; invalid UTF-8 is replaced lossily.
func (r *TerminalRenderer) decode(line []byte, lint string) string {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if utf8.Valid(line) {
		return string(line)
	}
	r.logger.Warn("source line is not valid UTF-8; rendering it lossily", slog.String("lint", lint))
	return strings.ToValidUTF8(string(line), string(utf8.RuneError))
}
