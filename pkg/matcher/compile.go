package matcher

import (
	"fmt"

	"github.com/praetorian-inc/bpflint/pkg/syntax"
	"github.com/praetorian-inc/bpflint/pkg/types"
)

// messageProperty is the pattern property holding a lint's diagnostic.
const messageProperty = "message"

// compiledLint is a definition compiled for an engine. It is read-only
// after compilation.
type compiledLint struct {
	def     types.Definition
	pattern syntax.Pattern
	message string
	props   [][]syntax.Property // property settings per pattern index
}

// compile compiles d and checks that it has exactly one pattern carrying
// a `message` property with a value.
func compile(engine syntax.Engine, d types.Definition) (*compiledLint, error) {
	pattern, err := engine.Compile(d.Source)
	if err != nil {
		return nil, &ConfigError{Lint: d.Name, Reason: reasonCompile, Err: err}
	}

	l := &compiledLint{def: d, pattern: pattern}
	if n := pattern.PatternCount(); n != 1 {
		pattern.Close()
		return nil, &ConfigError{
			Lint:   d.Name,
			Reason: fmt.Sprintf("query must contain exactly one pattern, found %d", n),
		}
	}
	l.props = [][]syntax.Property{pattern.PropertySettings(0)}

	msg, err := l.messageFor(0)
	if err != nil {
		pattern.Close()
		return nil, err
	}
	l.message = msg
	return l, nil
}

// messageFor returns the message of the pattern at index.
func (l *compiledLint) messageFor(index int) (string, error) {
	if index < 0 || index >= len(l.props) {
		return "", missingMessage(l.def.Name)
	}
	prop, ok := syntax.LookupProperty(l.props[index], messageProperty)
	if !ok {
		return "", missingMessage(l.def.Name)
	}
	if !prop.HasValue {
		return "", emptyMessage(l.def.Name)
	}
	return prop.Value, nil
}
