package genome

// Comparator defines the chromosome ordering inputs must satisfy (spec.md
// §4.7/§C7). The sweep engine itself never calls Less — per §4.4/§9 it
// uses only equality and "previously seen" membership. sweep.ParallelMerge
// uses it to put its per-chromosome results in enumeration order;
// complement and genomecov follow the genome table's own order instead.
type Comparator struct {
	// rank maps a genome-file-listed chromosome to its position. Absent
	// when there is no genome table, in which case ordering is purely
	// lexicographic.
	rank map[string]int
}

// Lexicographic returns the default comparator: plain byte-order string
// comparison, matching LC_ALL=C (spec.md §4.7).
func Lexicographic() *Comparator {
	return &Comparator{}
}

// FromTable returns a comparator where chromosomes listed in t sort in t's
// listed order, and any chromosome absent from t sorts after all of t's
// chromosomes, lexicographically among themselves (spec.md §4.7).
func FromTable(t *Table) *Comparator {
	c := &Comparator{rank: make(map[string]int, t.Len())}
	for i, name := range t.Chromosomes() {
		c.rank[name] = i
	}
	return c
}

// Less reports whether a sorts before b under this comparator.
func (c *Comparator) Less(a, b string) bool {
	if c.rank == nil {
		return a < b
	}
	ra, aKnown := c.rank[a]
	rb, bKnown := c.rank[b]
	switch {
	case aKnown && bKnown:
		return ra < rb
	case aKnown && !bKnown:
		return true
	case !aKnown && bKnown:
		return false
	default:
		return a < b
	}
}
