package main

import (
	"fmt"
	"os"

	"github.com/example/go-subword/internal/tokenizer"
	"github.com/example/go-subword/internal/vocabload"
	"github.com/spf13/cobra"
)

func newMarginalCmd() *cobra.Command {
	var freq float64

	cmd := &cobra.Command{
		Use:   "marginal [text]",
		Short: "Print per-piece Unigram posterior marginals and logZ",
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

			vocab, err := vocabload.Load(cfg.Vocab.Path)
			if err != nil {
				return err
			}

			model := tokenizer.NewUnigramModel(vocab)

			probs, logZ := model.Marginal(text, freq)

			fmt.Fprintf(os.Stdout, "logZ\t%.6f\n", logZ)
			for id, p := range probs {
				if p == 0 {
					continue
				}
				fmt.Fprintf(os.Stdout, "%s\t%d\t%.6f\n", vocab.IDToPiece(id), id, p)
			}

			return nil
		},
	}

	cmd.Flags().Float64Var(&freq, "freq", 1.0, "Observation frequency weight for the marginal pass")

	return cmd
}
