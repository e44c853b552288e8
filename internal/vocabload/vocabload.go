// Package vocabload reads a vocabulary file and builds a
// tokenizer.Vocabulary from it. It is the only place in this module that
// performs vocabulary-file I/O or deserialization; the tokenizer CORE
// never touches a filesystem.
package vocabload

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/example/go-subword/internal/tokenizer"
)

type pieceRecord struct {
	Piece string  `json:"piece"`
	Score float64 `json:"score"`
	Kind  string  `json:"kind"`
}

type vocabFile struct {
	Pieces []pieceRecord `json:"pieces"`
}

var kindNames = map[string]tokenizer.Kind{
	"NORMAL":       tokenizer.Normal,
	"UNKNOWN":      tokenizer.Unknown,
	"CONTROL":      tokenizer.Control,
	"USER_DEFINED": tokenizer.UserDefined,
}

// Load reads a vocabulary file from path and builds a tokenizer.Vocabulary
// from its contents.
func Load(path string) (*tokenizer.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocabload: open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a vocabulary file from r and builds a tokenizer.Vocabulary
// from its contents. Pieces keep the order they appear in the file, which
// becomes their vocabulary id order.
func Decode(r io.Reader) (*tokenizer.Vocabulary, error) {
	var vf vocabFile
	if err := json.NewDecoder(r).Decode(&vf); err != nil {
		return nil, fmt.Errorf("vocabload: decode: %w", err)
	}

	pieces := make([]tokenizer.Piece, len(vf.Pieces))
	for i, rec := range vf.Pieces {
		kind, ok := kindNames[rec.Kind]
		if !ok {
			return nil, fmt.Errorf("vocabload: piece %d (%q): unknown kind %q", i, rec.Piece, rec.Kind)
		}
		pieces[i] = tokenizer.Piece{Piece: rec.Piece, Score: rec.Score, Kind: kind}
	}

	vocab, err := tokenizer.NewVocabulary(pieces)
	if err != nil {
		return nil, fmt.Errorf("vocabload: %w", err)
	}

	return vocab, nil
}
