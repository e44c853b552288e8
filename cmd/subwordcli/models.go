package main

import (
	"fmt"

	"github.com/example/go-subword/internal/config"
	"github.com/example/go-subword/internal/server"
	"github.com/example/go-subword/internal/tokenizer"
	"github.com/example/go-subword/internal/vocabload"
)

// loadVocabAndModel loads the vocabulary at cfg.Vocab.Path and normalizes
// modelFlag (falling back to cfg.Vocab.Model when empty), returning the
// vocabulary and the resolved model name.
func loadVocabAndModel(cfg config.Config, modelFlag string) (*tokenizer.Vocabulary, string, error) {
	requested := modelFlag
	if requested == "" {
		requested = cfg.Vocab.Model
	}

	model, err := config.NormalizeModel(requested)
	if err != nil {
		return nil, "", err
	}

	vocab, err := vocabload.Load(cfg.Vocab.Path)
	if err != nil {
		return nil, "", err
	}

	return vocab, model, nil
}

func newSegmenter(model string, vocab *tokenizer.Vocabulary) (server.Segmenter, error) {
	switch model {
	case config.ModelBPE:
		return tokenizer.NewBPEModel(vocab), nil
	case config.ModelUnigram:
		return tokenizer.NewUnigramModel(vocab), nil
	default:
		return nil, fmt.Errorf("unsupported model %q", model)
	}
}
