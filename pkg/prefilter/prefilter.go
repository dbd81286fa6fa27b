// Package prefilter skips lints that cannot match a source file.
//
// A lint may declare literal keywords; if none of them occurs in a file,
// running its query is pointless. Lints without keywords are always kept.
package prefilter

import (
	"github.com/cloudflare/ahocorasick"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// Prefilter uses Aho-Corasick for efficient keyword matching.
type Prefilter struct {
	matcher      *ahocorasick.Matcher
	count        int      // number of definitions
	keywords     []string // keyword at each index
	keywordLints [][]int  // keyword index -> definition indices needing it
	noKeyword    []bool   // definitions without keywords (always selected)
}

// New creates a prefilter for defs. Selections refer to positions in defs.
func New(defs []types.Definition) *Prefilter {
	pf := &Prefilter{
		count:     len(defs),
		noKeyword: make([]bool, len(defs)),
	}

	// Collect all keywords and build mapping
	keywordIndex := make(map[string]int)
	for i, d := range defs {
		if len(d.Keywords) == 0 {
			pf.noKeyword[i] = true
			continue
		}
		for _, keyword := range d.Keywords {
			k, ok := keywordIndex[keyword]
			if !ok {
				k = len(pf.keywords)
				keywordIndex[keyword] = k
				pf.keywords = append(pf.keywords, keyword)
				pf.keywordLints = append(pf.keywordLints, nil)
			}
			pf.keywordLints[k] = append(pf.keywordLints[k], i)
		}
	}

	// Build Aho-Corasick matcher if we have keywords
	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Keywords returns the distinct keywords known to the prefilter.
func (pf *Prefilter) Keywords() []string {
	return append([]string(nil), pf.keywords...)
}

// Select returns the ascending indices of the definitions that might match
// content: those with a keyword found in content and those without
// keywords.
func (pf *Prefilter) Select(content []byte) []int {
	selected := make([]bool, pf.count)
	copy(selected, pf.noKeyword)

	if pf.matcher != nil {
		for _, hit := range pf.matcher.Match(content) {
			for _, i := range pf.keywordLints[hit] {
				selected[i] = true
			}
		}
	}

	result := make([]int, 0, pf.count)
	for i, ok := range selected {
		if ok {
			result = append(result, i)
		}
	}
	return result
}
