package doctree

// DocTree is the structured representation of one converted source document.
// It is persisted as JSON under a contribution's conversion directory and
// reparsed by the chunker, so the JSON round-trip must preserve structure.
type DocTree struct {
	Title    string     `json:"title"`              // Document title (from metadata or filename)
	Source   string     `json:"source,omitempty"`   // Original filename
	Children []*DocNode `json:"children,omitempty"` // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     `json:"title,omitempty"` // Section heading (empty for leaf text)
	Text     string     `json:"text,omitempty"`  // Text content (may be empty for container nodes)
	Page     int        `json:"page,omitempty"`  // Source page (0 if N/A)
	Table    bool       `json:"table,omitempty"` // Node holds tabular content
	Children []*DocNode `json:"children,omitempty"`
}

// Chunk is a sized text segment with structural context, ready for authoring.
type Chunk struct {
	Text       string   // Chunk text content
	Index      int      // Sequence number within document
	Breadcrumb []string // Heading hierarchy, e.g. ["Results", "Revenue", "Q4"]
	PageStart  int
	PageEnd    int
}

// NodeCount returns the total number of nodes in the tree, root excluded.
func (t *DocTree) NodeCount() int {
	n := 0
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, node := range nodes {
			n++
			walk(node.Children)
		}
	}
	walk(t.Children)
	return n
}

// Walk visits every node in document traversal order (depth-first,
// parents before children).
func (t *DocTree) Walk(fn func(node *DocNode, depth int)) {
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, node := range nodes {
			fn(node, depth)
			walk(node.Children, depth+1)
		}
	}
	walk(t.Children, 0)
}
