package config

import (
	"fmt"
	"strings"
)

const (
	ModelBPE     = "bpe"
	ModelUnigram = "unigram"
)

// NormalizeModel validates and lowercases a model-kind flag/config value,
// defaulting to unigram when raw is empty.
func NormalizeModel(raw string) (string, error) {
	model := strings.ToLower(strings.TrimSpace(raw))
	if model == "" {
		model = ModelUnigram
	}
	switch model {
	case ModelBPE, ModelUnigram:
		return model, nil
	default:
		return "", fmt.Errorf("invalid model %q (expected %s|%s)", raw, ModelBPE, ModelUnigram)
	}
}
