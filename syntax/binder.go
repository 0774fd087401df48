package syntax

// EdgeBinder places a node edge inside the run of whitespace and comment
// tokens adjacent to it. run holds the types of that run in source order and
// the result is an index in [0, len(run)]: the edge lands just before
// run[i], or after the whole run when i == len(run).
type EdgeBinder func(run []*ElementType, atStreamEdge bool) int

// DefaultLeftBinder keeps leading whitespace and comments out of the node.
func DefaultLeftBinder(run []*ElementType, atStreamEdge bool) int {
	return len(run)
}

// DefaultRightBinder keeps trailing whitespace and comments out of the node.
func DefaultRightBinder(run []*ElementType, atStreamEdge bool) int {
	return 0
}

// GreedyLeftBinder pulls the comments directly preceding a node into it,
// skipping whitespace that comes before the first of them.
func GreedyLeftBinder(run []*ElementType, atStreamEdge bool) int {
	for i, t := range run {
		if t == Comment {
			return i
		}
	}
	return len(run)
}

// GreedyRightBinder pulls all trailing whitespace and comments into the node.
func GreedyRightBinder(run []*ElementType, atStreamEdge bool) int {
	return len(run)
}
