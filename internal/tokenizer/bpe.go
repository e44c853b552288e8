package tokenizer

import "container/heap"

// bpeSymbol is one node of the doubly-linked symbol list BPE merges
// down. prev/next are indices into the owning slice, or -1 at either
// end. freed marks a symbol that has been absorbed into its left
// neighbor by a merge and no longer occupies a position in the chain.
type bpeSymbol struct {
	piece string
	prev  int
	next  int
	freed bool
}

// BPEModel segments text by repeatedly merging the highest-scoring
// adjacent symbol pair present in the vocabulary, starting from one
// symbol per character.
type BPEModel struct {
	vocab *Vocabulary
}

// NewBPEModel builds a BPEModel over vocab.
func NewBPEModel(vocab *Vocabulary) *BPEModel {
	return &BPEModel{vocab: vocab}
}

// Encode returns the greedy priority-merge segmentation of sentence.
func (m *BPEModel) Encode(sentence string) []EncodedPiece {
	symbols, order := m.run(sentence, nil)
	if len(order) == 0 {
		return nil
	}
	out := make([]EncodedPiece, len(order))
	for i, idx := range order {
		piece := symbols[idx].piece
		out[i] = EncodedPiece{Piece: piece, ID: m.vocab.PieceToID(piece)}
	}
	return out
}

// bpeMergeStep records one accepted merge, for test inspection via
// DebugTrace.
type bpeMergeStep struct {
	Left, Right string
	Merged      string
	Score       float64
}

// DebugTrace returns the sequence of merges BPE performs while encoding
// sentence, in acceptance order. It exists for test assertions against
// the upstream reference's intermediate merge trace and is not part of
// the public API.
func (m *BPEModel) DebugTrace(sentence string) []bpeMergeStep {
	var trace []bpeMergeStep
	m.run(sentence, &trace)
	return trace
}

func (m *BPEModel) run(sentence string, trace *[]bpeMergeStep) ([]bpeSymbol, []int) {
	if sentence == "" {
		return nil, nil
	}

	offsets := CharOffsets(sentence)
	nChars := len(offsets) - 1
	symbols := make([]bpeSymbol, nChars)
	for i := 0; i < nChars; i++ {
		symbols[i] = bpeSymbol{
			piece: sentence[offsets[i]:offsets[i+1]],
			prev:  i - 1,
			next:  i + 1,
		}
	}
	symbols[nChars-1].next = -1

	q := &bpeQueue{}
	heap.Init(q)

	suggest := func(l, r int) {
		if l == -1 || r == -1 {
			return
		}
		if symbols[l].freed || symbols[r].freed {
			return
		}
		merged := symbols[l].piece + symbols[r].piece
		id, ok := m.vocab.lookup(merged)
		if !ok {
			return
		}
		heap.Push(q, &bpeCandidate{Left: l, Right: r, Score: m.vocab.Score(id), Size: len(merged)})
	}

	for i := 0; i+1 < nChars; i++ {
		suggest(i, i+1)
	}

	for q.Len() > 0 {
		cand := heap.Pop(q).(*bpeCandidate)
		l, r := cand.Left, cand.Right
		if symbols[l].freed || symbols[r].freed {
			continue
		}
		if len(symbols[l].piece)+len(symbols[r].piece) != cand.Size {
			continue
		}

		left, right := symbols[l].piece, symbols[r].piece
		merged := left + right
		symbols[l].piece = merged
		next := symbols[r].next
		symbols[r].freed = true
		symbols[l].next = next
		if next != -1 {
			symbols[next].prev = l
		}

		if trace != nil {
			*trace = append(*trace, bpeMergeStep{Left: left, Right: right, Merged: merged, Score: cand.Score})
		}

		suggest(symbols[l].prev, l)
		suggest(l, symbols[l].next)
	}

	var order []int
	for i := 0; i != -1; i = symbols[i].next {
		order = append(order, i)
	}
	return symbols, order
}

