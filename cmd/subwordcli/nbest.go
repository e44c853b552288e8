package main

import (
	"fmt"
	"os"

	"github.com/example/go-subword/internal/tokenizer"
	"github.com/example/go-subword/internal/vocabload"
	"github.com/spf13/cobra"
)

func newNBestCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "nbest [text]",
		Short: "Print the k highest-scoring Unigram segmentations",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			text, err := readCLIText(args, os.Stdin)
			if err != nil {
				return err
			}

			if k <= 0 {
				k = cfg.NBest.DefaultK
			}

			vocab, err := vocabload.Load(cfg.Vocab.Path)
			if err != nil {
				return err
			}

			model := tokenizer.NewUnigramModel(vocab)

			for rank, path := range model.NBest(text, k) {
				total := 0.0
				pieces := make([]string, len(path))
				for i, p := range path {
					pieces[i] = p.Piece
					total += vocab.Score(p.ID)
				}

				fmt.Fprintf(os.Stdout, "%d\t%.6f\t%v\n", rank+1, total, pieces)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 0, "Number of segmentations to return (defaults to config nbest.default_k)")

	return cmd
}
