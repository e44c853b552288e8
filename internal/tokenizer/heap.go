package tokenizer

// bpeCandidate is a proposed merge of the symbols at indices Left and
// Right in a BPE symbol list. Size records the combined byte length of
// the two symbols at the time the candidate was created, used to detect
// staleness after one of them has already been merged away.
type bpeCandidate struct {
	Left, Right int
	Score       float64
	Size        int
}

// bpeQueue is a max-heap over bpeCandidate ordered by descending score,
// breaking ties by ascending left index, matching the canonical BPE
// merge-priority ordering.
type bpeQueue []*bpeCandidate

func (q bpeQueue) Len() int { return len(q) }

func (q bpeQueue) Less(i, j int) bool {
	if q[i].Score != q[j].Score {
		return q[i].Score > q[j].Score
	}
	return q[i].Left < q[j].Left
}

func (q bpeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *bpeQueue) Push(x any) {
	*q = append(*q, x.(*bpeCandidate))
}

func (q *bpeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
