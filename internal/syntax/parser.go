package syntax

// Parser produces a syntax tree from raw text. Implementations must accept
// any input: malformed text yields partial trees with error-tolerant nodes,
// never a failure. The fragment reparse path relies on this — text under
// live editing is routinely incomplete.
type Parser interface {
	Parse(content []byte) *Tree
}
