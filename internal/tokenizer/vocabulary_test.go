package tokenizer

import (
	"errors"
	"testing"
)

func TestNewVocabulary_IDLayout(t *testing.T) {
	pieces := []Piece{
		{Piece: "<unk>", Score: 0, Kind: Unknown},
		{Piece: "<s>", Score: 0, Kind: Control},
		{Piece: "</s>", Score: 0, Kind: Control},
		{Piece: "a", Score: 0.1, Kind: Normal},
		{Piece: "b", Score: 0.2, Kind: Normal},
	}
	vocab, err := NewVocabulary(pieces)
	if err != nil {
		t.Fatalf("NewVocabulary() error = %v", err)
	}

	cases := []struct {
		piece string
		id    int
	}{
		{"<unk>", 0},
		{"<s>", 1},
		{"</s>", 2},
		{"a", 3},
		{"b", 4},
	}
	for _, c := range cases {
		if got := vocab.PieceToID(c.piece); got != c.id {
			t.Errorf("PieceToID(%q) = %d, want %d", c.piece, got, c.id)
		}
		if got := vocab.IDToPiece(c.id); got != c.piece {
			t.Errorf("IDToPiece(%d) = %q, want %q", c.id, got, c.piece)
		}
	}

	if got := vocab.UnkID(); got != 0 {
		t.Errorf("UnkID() = %d, want 0", got)
	}
}

func TestVocabulary_PieceToID_Fallback(t *testing.T) {
	vocab := mustVocab(t, []Piece{
		{Piece: "<unk>", Kind: Unknown},
		{Piece: "a", Score: 0.1, Kind: Normal},
	})

	for _, s := range []string{"", "missing", "xyz"} {
		if got := vocab.PieceToID(s); got != vocab.UnkID() {
			t.Errorf("PieceToID(%q) = %d, want unk id %d", s, got, vocab.UnkID())
		}
	}
}

func TestVocabulary_MinScore(t *testing.T) {
	vocab := mustVocab(t, []Piece{
		{Piece: "<unk>", Kind: Unknown},
		{Piece: "a", Score: -0.4, Kind: Normal},
		{Piece: "b", Score: -0.1, Kind: Normal},
		{Piece: "c", Score: -0.9, Kind: Normal},
	})
	if got, want := vocab.MinScore(), -0.9; got != want {
		t.Errorf("MinScore() = %v, want %v", got, want)
	}
}

func TestVocabulary_MinScore_NoNormalPieces(t *testing.T) {
	vocab := mustVocab(t, []Piece{
		{Piece: "<unk>", Kind: Unknown},
		{Piece: "<s>", Kind: Control},
	})
	if got, want := vocab.MinScore(), 0.0; got != want {
		t.Errorf("MinScore() = %v, want %v", got, want)
	}
}

func TestNewVocabulary_Errors(t *testing.T) {
	tests := []struct {
		name   string
		pieces []Piece
	}{
		{"empty", nil},
		{"no unknown piece", []Piece{{Piece: "a", Kind: Normal}}},
		{"duplicate piece", []Piece{
			{Piece: "<unk>", Kind: Unknown},
			{Piece: "a", Kind: Normal},
			{Piece: "a", Kind: Normal},
		}},
		{"two unknown pieces", []Piece{
			{Piece: "<unk>", Kind: Unknown},
			{Piece: "<unk2>", Kind: Unknown},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVocabulary(tt.pieces)
			if !errors.Is(err, ErrInvalidVocabulary) {
				t.Fatalf("NewVocabulary() error = %v, want ErrInvalidVocabulary", err)
			}
		})
	}
}

func TestVocabulary_IsUnknownIsControl(t *testing.T) {
	vocab := mustVocab(t, []Piece{
		{Piece: "<unk>", Kind: Unknown},
		{Piece: "<s>", Kind: Control},
		{Piece: "a", Score: 0.1, Kind: Normal},
	})
	if !vocab.IsUnknown(vocab.PieceToID("<unk>")) {
		t.Error("IsUnknown(<unk> id) = false, want true")
	}
	if !vocab.IsControl(vocab.PieceToID("<s>")) {
		t.Error("IsControl(<s> id) = false, want true")
	}
	if vocab.IsControl(vocab.PieceToID("a")) {
		t.Error("IsControl(a id) = true, want false")
	}
}

// mustVocab is a test helper shared across this package's test files.
func mustVocab(t *testing.T, pieces []Piece) *Vocabulary {
	t.Helper()
	vocab, err := NewVocabulary(pieces)
	if err != nil {
		t.Fatalf("NewVocabulary() error = %v", err)
	}
	return vocab
}
