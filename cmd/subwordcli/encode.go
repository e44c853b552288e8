package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Segment text into subword pieces",
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

			vocab, resolved, err := loadVocabAndModel(cfg, model)
			if err != nil {
				return err
			}

			seg, err := newSegmenter(resolved, vocab)
			if err != nil {
				return err
			}

			for _, p := range seg.Encode(text) {
				if _, err := fmt.Fprintf(os.Stdout, "%s\t%d\n", p.Piece, p.ID); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Segmentation model (bpe|unigram), overrides config")

	return cmd
}

func readCLIText(args []string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	b, err := readAllTrimmed(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if b == "" {
		return "", fmt.Errorf("either provide text as an argument or pipe it on stdin")
	}

	return b, nil
}
