package types

// Definition is a named lint backed by a single structural query.
type Definition struct {
	Name     string   `json:"name"`               // slug, e.g. "probe-read"
	Source   string   `json:"source"`             // tree-sitter query source
	Keywords []string `json:"keywords,omitempty"` // prefilter keywords, optional
}

// Meta describes a lint for listings.
type Meta struct {
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
}
