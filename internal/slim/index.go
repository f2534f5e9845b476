package slim

// orderedIndex assigns dense indices to keys in first-seen order.
type orderedIndex[K comparable] struct {
	keys  []K
	index map[K]int
}

func newOrderedIndex[K comparable]() *orderedIndex[K] {
	return &orderedIndex[K]{index: make(map[K]int)}
}

// add returns the index of k, assigning the next free one if k is new.
func (o *orderedIndex[K]) add(k K) (int, bool) {
	if i, ok := o.index[k]; ok {
		return i, false
	}
	i := len(o.keys)
	o.keys = append(o.keys, k)
	o.index[k] = i
	return i, true
}

func (o *orderedIndex[K]) len() int { return len(o.keys) }

// Timepoints maps original generation numbers to dense matrix row indices,
// in the order generations were first encountered.
type Timepoints struct {
	idx *orderedIndex[int64]
}

func newTimepoints() *Timepoints {
	return &Timepoints{idx: newOrderedIndex[int64]()}
}

// Index returns the row index for generation gen.
func (t *Timepoints) Index(gen int64) (int, bool) {
	i, ok := t.idx.index[gen]
	return i, ok
}

// Generations returns the generation stored at each row index.
func (t *Timepoints) Generations() []int64 {
	return append([]int64(nil), t.idx.keys...)
}

// Len returns the number of distinct generations.
func (t *Timepoints) Len() int { return t.idx.len() }

// Map returns a copy of the mapping as a plain map.
func (t *Timepoints) Map() map[int64]int {
	m := make(map[int64]int, len(t.idx.index))
	for k, v := range t.idx.index {
		m[k] = v
	}
	return m
}
