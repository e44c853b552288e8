package tokenizer

// unknownPenalty is subtracted from the vocabulary's min Normal score to
// make the unknown piece always less attractive than any real match,
// matching sentencepiece's unk_score = min_score - kUnkPenalty constant.
const unknownPenalty = 10.0

// UnigramModel segments text by building a lattice of every vocabulary
// match at every position and taking the Viterbi-optimal path through
// it.
type UnigramModel struct {
	vocab *Vocabulary
	trie  *prefixTrie
}

// NewUnigramModel builds a UnigramModel over vocab.
func NewUnigramModel(vocab *Vocabulary) *UnigramModel {
	return &UnigramModel{vocab: vocab, trie: newPrefixTrie(vocab)}
}

// PopulateNodes inserts one lattice node for every vocabulary piece that
// matches a prefix of the suffix at each character position. If no
// Normal piece matches at a position, it inserts a single-character
// unknown-piece node there so the lattice stays complete.
func (m *UnigramModel) PopulateNodes(l *Lattice) {
	n := l.Size()
	for pos := 0; pos < n; pos++ {
		hasNormal := false
		m.trie.matches(l.Surface(pos), func(id int, score float64, chars int, kind Kind) {
			node := l.Insert(pos, chars)
			node.ID = id
			node.Score = score
			if kind == Normal {
				hasNormal = true
			}
		})
		if !hasNormal {
			node := l.Insert(pos, 1)
			node.ID = m.vocab.UnkID()
			node.Score = m.vocab.MinScore() - unknownPenalty
		}
	}
}

// Encode returns the Viterbi-optimal segmentation of sentence.
func (m *UnigramModel) Encode(sentence string) []EncodedPiece {
	if sentence == "" {
		return nil
	}
	l := NewLattice()
	l.SetSentence(sentence)
	m.PopulateNodes(l)

	nodes := l.Viterbi()
	out := make([]EncodedPiece, len(nodes))
	for i, n := range nodes {
		out[i] = EncodedPiece{Piece: n.Piece, ID: n.ID}
	}
	return out
}

// NBest returns up to k distinct segmentations of sentence ordered by
// descending total score.
func (m *UnigramModel) NBest(sentence string, k int) [][]EncodedPiece {
	if sentence == "" || k <= 0 {
		return nil
	}
	l := NewLattice()
	l.SetSentence(sentence)
	m.PopulateNodes(l)

	paths := l.NBest(k)
	out := make([][]EncodedPiece, len(paths))
	for i, nodes := range paths {
		seg := make([]EncodedPiece, len(nodes))
		for j, n := range nodes {
			seg[j] = EncodedPiece{Piece: n.Piece, ID: n.ID}
		}
		out[i] = seg
	}
	return out
}

// Marginal returns, for sentence, the per-piece-id posterior marginal
// probabilities (scaled by freq and accumulated into a vector sized to
// the vocabulary) and the log partition function over all complete
// segmentations.
func (m *UnigramModel) Marginal(sentence string, freq float64) (probs []float64, logZ float64) {
	if sentence == "" {
		return make([]float64, m.vocab.Len()), 0
	}
	l := NewLattice()
	l.SetSentence(sentence)
	m.PopulateNodes(l)

	probs = make([]float64, m.vocab.Len())
	logZ = l.PopulateMarginal(freq, probs)
	return probs, logZ
}
