package main

import (
	"fmt"
	"os"

	"github.com/example/go-subword/internal/vocabload"
	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Print vocabulary stats for operational sanity-checking",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			vocab, err := vocabload.Load(cfg.Vocab.Path)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "path\t%s\n", cfg.Vocab.Path)
			fmt.Fprintf(os.Stdout, "size\t%d\n", vocab.Len())
			fmt.Fprintf(os.Stdout, "unk_id\t%d\n", vocab.UnkID())
			fmt.Fprintf(os.Stdout, "min_score\t%.6f\n", vocab.MinScore())

			return nil
		},
	}

	return cmd
}
