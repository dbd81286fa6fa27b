package report

import "bytes"

// lines iterates over the lines of code, starting with the line that
// contains byte idx. Lines are separated by '\n' and returned without it.
type lines struct {
	code []byte
	idx  int
	done bool
}

func newLines(code []byte, idx int) *lines {
	idx = min(max(idx, 0), len(code))
	return &lines{code: code, idx: idx}
}

// next returns the next line. A range ending at EOF yields a final empty
// line after a trailing newline.
func (l *lines) next() ([]byte, bool) {
	if l.done {
		return nil, false
	}

	start := bytes.LastIndexByte(l.code[:l.idx], '\n') + 1
	end := len(l.code)
	if i := bytes.IndexByte(l.code[l.idx:], '\n'); i >= 0 {
		end = l.idx + i
	}

	next := end + 1
	if next > len(l.code) {
		l.done = true
	} else {
		l.idx = next
	}
	return l.code[start:end], true
}
