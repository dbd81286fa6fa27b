package lint

import "embed"

// builtinLintsFS embeds the built-in lint queries. Each file holds one
// tree-sitter query; the lint name is the file name without ".scm".
//
//go:embed lints/*.scm
var builtinLintsFS embed.FS

// builtinDir is the directory of builtinLintsFS holding the queries.
const builtinDir = "lints"
