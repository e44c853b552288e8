package tokenizer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidVocabulary is returned by NewVocabulary when the supplied
// pieces cannot form a valid vocabulary.
var ErrInvalidVocabulary = errors.New("tokenizer: invalid vocabulary")

// Vocabulary is an immutable, dense mapping between piece strings and
// integer ids. Ids are assigned by insertion order: the id of pieces[i]
// is i.
type Vocabulary struct {
	pieces   []Piece
	index    map[string]int
	unkID    int
	minScore float64
}

// NewVocabulary builds a Vocabulary from pieces in insertion order. It
// requires exactly one Unknown piece and no duplicate piece strings.
func NewVocabulary(pieces []Piece) (*Vocabulary, error) {
	if len(pieces) == 0 {
		return nil, fmt.Errorf("%w: no pieces supplied", ErrInvalidVocabulary)
	}

	index := make(map[string]int, len(pieces))
	unkID := -1
	minScore := math.Inf(1)
	hasNormal := false

	owned := make([]Piece, len(pieces))
	for i, p := range pieces {
		if _, exists := index[p.Piece]; exists {
			return nil, fmt.Errorf("%w: duplicate piece %q", ErrInvalidVocabulary, p.Piece)
		}
		p.ID = i
		owned[i] = p
		index[p.Piece] = i

		switch p.Kind {
		case Unknown:
			if unkID != -1 {
				return nil, fmt.Errorf("%w: more than one unknown piece (%q and %q)",
					ErrInvalidVocabulary, owned[unkID].Piece, p.Piece)
			}
			unkID = i
		case Normal:
			hasNormal = true
			if p.Score < minScore {
				minScore = p.Score
			}
		}
	}

	if unkID == -1 {
		return nil, fmt.Errorf("%w: no unknown piece", ErrInvalidVocabulary)
	}
	if !hasNormal {
		minScore = 0
	}

	return &Vocabulary{pieces: owned, index: index, unkID: unkID, minScore: minScore}, nil
}

// Len returns the number of pieces in the vocabulary.
func (v *Vocabulary) Len() int { return len(v.pieces) }

// UnkID returns the id of the vocabulary's single Unknown piece.
func (v *Vocabulary) UnkID() int { return v.unkID }

// MinScore returns the minimum score among Normal pieces, or 0 if the
// vocabulary has no Normal pieces.
func (v *Vocabulary) MinScore() float64 { return v.minScore }

// PieceToID returns the id of piece, or UnkID() if piece is empty or not
// present in the vocabulary.
func (v *Vocabulary) PieceToID(piece string) int {
	if piece == "" {
		return v.unkID
	}
	if id, ok := v.index[piece]; ok {
		return id
	}
	return v.unkID
}

// lookup returns the id of piece and whether it is present, without
// falling back to the unknown id. Used by matchers that must distinguish
// "not in vocabulary" from "is the unknown piece".
func (v *Vocabulary) lookup(piece string) (int, bool) {
	id, ok := v.index[piece]
	return id, ok
}

// IDToPiece returns the surface string of id. It panics if id is out of
// range, mirroring the CORE's treatment of caller contract violations.
func (v *Vocabulary) IDToPiece(id int) string { return v.pieces[id].Piece }

// Score returns the training score of id.
func (v *Vocabulary) Score(id int) float64 { return v.pieces[id].Score }

// PieceAt returns the full Piece record for id.
func (v *Vocabulary) PieceAt(id int) Piece { return v.pieces[id] }

// IsUnknown reports whether id is the vocabulary's unknown piece.
func (v *Vocabulary) IsUnknown(id int) bool { return id == v.unkID }

// IsControl reports whether id is a control piece.
func (v *Vocabulary) IsControl(id int) bool { return v.pieces[id].Kind == Control }
