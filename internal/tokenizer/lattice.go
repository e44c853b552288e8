package tokenizer

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
)

// ErrIncompleteLattice is the panic value raised by Viterbi, NBest, and
// PopulateMarginal when some character position has no node beginning at
// it. A complete lattice is a precondition these algorithms cannot
// recover from; per spec this is a programming error, not a runtime
// condition callers are expected to handle.
var ErrIncompleteLattice = errors.New("tokenizer: incomplete lattice")

// Node is one span in a Lattice: the piece occupying character positions
// [Pos, Pos+Length) of the lattice's sentence.
type Node struct {
	Pos            int
	Length         int
	Piece          string
	ID             int
	Score          float64
	NodeID         int
	BacktraceScore float64
	Prev           *Node
}

// Lattice holds every candidate segmentation node for one sentence,
// indexed by the character position each node begins or ends at. BOS and
// EOS sentinel nodes bracket the sentence at node ids 0 and 1
// respectively.
type Lattice struct {
	sentence   string
	offsets    []int
	size       int
	utf8Size   int
	beginNodes [][]*Node
	endNodes   [][]*Node
	bos        *Node
	eos        *Node
	nextNodeID int
}

// NewLattice returns an empty Lattice. Call SetSentence before inserting
// nodes.
func NewLattice() *Lattice { return &Lattice{} }

// Clear resets the lattice to its zero state, discarding the sentence and
// all nodes.
func (l *Lattice) Clear() {
	l.sentence = ""
	l.offsets = nil
	l.size = 0
	l.utf8Size = 0
	l.beginNodes = nil
	l.endNodes = nil
	l.bos = nil
	l.eos = nil
	l.nextNodeID = 0
}

// SetSentence clears the lattice and installs s as its sentence, creating
// fresh BOS (node id 0) and EOS (node id 1) sentinels.
func (l *Lattice) SetSentence(s string) {
	l.Clear()
	l.sentence = s
	l.offsets = CharOffsets(s)
	l.size = len(l.offsets) - 1
	l.utf8Size = len(s)
	l.beginNodes = make([][]*Node, l.size+1)
	l.endNodes = make([][]*Node, l.size+1)

	l.bos = &Node{ID: -1, Pos: 0, NodeID: l.nextNodeID}
	l.nextNodeID++
	l.eos = &Node{ID: -1, Pos: l.size, NodeID: l.nextNodeID}
	l.nextNodeID++

	l.endNodes[0] = append(l.endNodes[0], l.bos)
	l.beginNodes[l.size] = append(l.beginNodes[l.size], l.eos)
}

// Size returns the number of characters in the sentence.
func (l *Lattice) Size() int { return l.size }

// Utf8Size returns the number of bytes in the sentence.
func (l *Lattice) Utf8Size() int { return l.utf8Size }

// Sentence returns the lattice's sentence.
func (l *Lattice) Sentence() string { return l.sentence }

// Surface returns the suffix of the sentence starting at character
// position i.
func (l *Lattice) Surface(i int) string { return l.sentence[l.offsets[i]:] }

// CharByteLen returns the byte length of the character at position i.
func (l *Lattice) CharByteLen(i int) int { return l.offsets[i+1] - l.offsets[i] }

// BOSNode returns the lattice's beginning-of-sentence sentinel.
func (l *Lattice) BOSNode() *Node { return l.bos }

// EOSNode returns the lattice's end-of-sentence sentinel.
func (l *Lattice) EOSNode() *Node { return l.eos }

// BeginNodes returns the nodes beginning at character position i, in
// insertion order.
func (l *Lattice) BeginNodes(i int) []*Node { return l.beginNodes[i] }

// EndNodes returns the nodes ending at character position i, in
// insertion order.
func (l *Lattice) EndNodes(i int) []*Node { return l.endNodes[i] }

// Insert creates a node spanning [pos, pos+length) and appends it to
// beginNodes[pos] and endNodes[pos+length]. The caller is expected to set
// the returned node's ID and Score before running Viterbi, NBest, or
// PopulateMarginal. Insert panics if the span falls outside the
// sentence.
func (l *Lattice) Insert(pos, length int) *Node {
	if pos < 0 || length < 1 || pos+length > l.size {
		panic(fmt.Sprintf("tokenizer: Insert(%d, %d) out of range for lattice of size %d", pos, length, l.size))
	}
	start := l.offsets[pos]
	end := l.offsets[pos+length]
	n := &Node{
		Pos:    pos,
		Length: length,
		Piece:  l.sentence[start:end],
		NodeID: l.nextNodeID,
	}
	l.nextNodeID++
	l.beginNodes[pos] = append(l.beginNodes[pos], n)
	l.endNodes[pos+length] = append(l.endNodes[pos+length], n)
	return n
}

// isComplete reports whether every character position has at least one
// node beginning at it.
func (l *Lattice) isComplete() bool {
	for i := 0; i < l.size; i++ {
		if len(l.beginNodes[i]) == 0 {
			return false
		}
	}
	return true
}

// Viterbi returns the highest-scoring path through the lattice as an
// ordered list of nodes (excluding BOS/EOS). Ties are broken by keeping
// the first predecessor encountered in insertion order. Viterbi panics
// with ErrIncompleteLattice if the lattice is incomplete.
func (l *Lattice) Viterbi() []*Node {
	if !l.isComplete() {
		panic(ErrIncompleteLattice)
	}

	l.bos.BacktraceScore = 0
	l.bos.Prev = nil

	for pos := 0; pos <= l.size; pos++ {
		for _, n := range l.beginNodes[pos] {
			best := math.Inf(-1)
			var bestPrev *Node
			for _, pred := range l.endNodes[pos] {
				s := pred.BacktraceScore + n.Score
				if s > best {
					best = s
					bestPrev = pred
				}
			}
			n.BacktraceScore = best
			n.Prev = bestPrev
		}
	}

	var path []*Node
	for n := l.eos.Prev; n != nil && n != l.bos; n = n.Prev {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// nbestHypothesis is a partial path explored backward from EOS toward
// BOS during NBest's lazy A* search.
type nbestHypothesis struct {
	node *Node
	next *nbestHypothesis
	gx   float64
	fx   float64
}

type nbestAgenda []*nbestHypothesis

func (a nbestAgenda) Len() int { return len(a) }
func (a nbestAgenda) Less(i, j int) bool {
	if a[i].fx != a[j].fx {
		return a[i].fx > a[j].fx
	}
	return a[i].node.NodeID < a[j].node.NodeID
}
func (a nbestAgenda) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a *nbestAgenda) Push(x any)   { *a = append(*a, x.(*nbestHypothesis)) }
func (a *nbestAgenda) Pop() any {
	old := *a
	n := len(old)
	item := old[n-1]
	*a = old[:n-1]
	return item
}

// NBest returns up to n distinct segmentations ordered by descending
// total score, via a lazy A* search seeded by Viterbi's per-node
// backtrace scores as an admissible heuristic. NBest panics with
// ErrIncompleteLattice if the lattice is incomplete.
func (l *Lattice) NBest(n int) [][]*Node {
	if n <= 0 {
		return nil
	}
	if !l.isComplete() {
		panic(ErrIncompleteLattice)
	}
	l.Viterbi()

	agenda := &nbestAgenda{}
	heap.Init(agenda)
	heap.Push(agenda, &nbestHypothesis{node: l.eos, gx: 0, fx: l.eos.BacktraceScore})

	var results [][]*Node
	for agenda.Len() > 0 && len(results) < n {
		top := heap.Pop(agenda).(*nbestHypothesis)
		node := top.node

		if node == l.bos {
			var path []*Node
			for h := top.next; h != nil && h.node != l.eos; h = h.next {
				path = append(path, h.node)
			}
			results = append(results, path)
			continue
		}

		for _, pred := range l.endNodes[node.Pos] {
			gx := top.gx + node.Score
			fx := gx + pred.BacktraceScore
			heap.Push(agenda, &nbestHypothesis{node: pred, next: top, gx: gx, fx: fx})
		}
	}
	return results
}

func logSumExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a > b {
		return a + math.Log1p(math.Exp(b-a))
	}
	return b + math.Log1p(math.Exp(a-b))
}

// PopulateMarginal runs the forward-backward algorithm over the lattice
// in log space and, for every real node v (excluding BOS/EOS), adds
// freq*marginal(v) to probs[v.ID]. It returns logZ, the log partition
// function over all complete segmentations. probs must be sized to at
// least the highest piece id used by any inserted node, plus one.
// PopulateMarginal panics with ErrIncompleteLattice if the lattice is
// incomplete.
func (l *Lattice) PopulateMarginal(freq float64, probs []float64) float64 {
	if !l.isComplete() {
		panic(ErrIncompleteLattice)
	}

	n := l.size
	alpha := make([]float64, n+1)
	beta := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		alpha[i] = math.Inf(-1)
	}
	for i := 0; i < n; i++ {
		beta[i] = math.Inf(-1)
	}

	for pos := 1; pos <= n; pos++ {
		for _, w := range l.endNodes[pos] {
			alpha[pos] = logSumExp(alpha[pos], alpha[w.Pos]+w.Score)
		}
	}
	for pos := n - 1; pos >= 0; pos-- {
		for _, w := range l.beginNodes[pos] {
			beta[pos] = logSumExp(beta[pos], w.Score+beta[pos+w.Length])
		}
	}

	logZ := alpha[n]
	for pos := 0; pos < n; pos++ {
		for _, w := range l.beginNodes[pos] {
			m := math.Exp(alpha[w.Pos] + w.Score + beta[w.Pos+w.Length] - logZ)
			probs[w.ID] += freq * m
		}
	}
	return logZ
}
