package lint

import (
	"fmt"
	"slices"
	"sync"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// Catalog is an ordered, immutable set of lint definitions with unique
// names.
type Catalog struct {
	defs  []types.Definition
	index map[string]int
}

// NewCatalog validates defs and returns them as a catalog. Order is kept.
func NewCatalog(defs ...types.Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]types.Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if err := ValidateDefinition(d); err != nil {
			return nil, err
		}
		if _, dup := c.index[d.Name]; dup {
			return nil, fmt.Errorf("duplicate lint name: %s", d.Name)
		}
		d.Keywords = slices.Clone(d.Keywords)
		c.index[d.Name] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// Definitions returns a copy of the definitions in catalog order.
func (c *Catalog) Definitions() []types.Definition {
	return slices.Clone(c.defs)
}

// Names returns the lint names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.defs))
	for i, d := range c.defs {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the definition with the given name.
func (c *Catalog) Lookup(name string) (types.Definition, bool) {
	i, ok := c.index[name]
	if !ok {
		return types.Definition{}, false
	}
	return c.defs[i], true
}

// Len returns the number of lints.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Filter returns a new catalog with the definitions selected by config.
func (c *Catalog) Filter(config FilterConfig) (*Catalog, error) {
	defs, err := Filter(c.defs, config)
	if err != nil {
		return nil, err
	}
	return NewCatalog(defs...)
}

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
	builtinErr     error
)

// Builtin returns the catalog of embedded lints. It is loaded once per
// process.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtinCatalog, builtinErr = NewLoader().Load()
	})
	return builtinCatalog, builtinErr
}
