// Package tokenizer implements subword segmentation over a trained
// vocabulary: greedy priority-merge BPE and probabilistic Unigram lattice
// decoding. It consumes an already-normalized string and a Vocabulary
// built from pieces supplied by a model-file loader; it does not read
// files, train vocabularies, or normalize text itself.
package tokenizer
