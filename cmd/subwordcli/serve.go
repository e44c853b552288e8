package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/go-subword/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the subword tokenizer HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
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

			srv := server.New(cfg, map[string]server.Segmenter{resolved: seg}).
				WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout) * time.Second)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Segmentation model to serve (bpe|unigram), overrides config")

	return cmd
}
