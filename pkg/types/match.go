package types

// Match is a single lint hit.
type Match struct {
	LintName string `json:"lint_name"` // e.g., "probe-read"
	Message  string `json:"message"`   // the lint's `message` property
	Range    Range  `json:"range"`     // code range that triggered the lint
}

// Compare orders matches by start point, then end point. Matches that
// compare equal are not distinguished further.
func (m Match) Compare(other Match) int {
	if c := m.Range.StartPoint.Compare(other.Range.StartPoint); c != 0 {
		return c
	}
	return m.Range.EndPoint.Compare(other.Range.EndPoint)
}
