package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurlang/speechcommands/batch"
	"github.com/neurlang/speechcommands/datasets/speechcommands"
	"github.com/neurlang/speechcommands/featcache"
	"github.com/neurlang/speechcommands/learning"
	"github.com/neurlang/speechcommands/model"
	"github.com/neurlang/speechcommands/spectrogram"
	"github.com/neurlang/speechcommands/trainer"
)

var (
	resume       bool
	significance uint8
	deadlineMs   int
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model on the training split",
	Long: `Train a hashtron network on the training split, reporting the validation
accuracy after every epoch. The model is saved to model_path after every epoch.

Examples:
  speechcommands train
  speechcommands train --resume --significance 95`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		train, validation, _, labels, err := dataset()
		if err != nil {
			return err
		}

		m, err := model.New(labels, cfg.Frontend(), cfg.Architecture())
		if err != nil {
			return err
		}
		if resume {
			if m, err = model.Load(cfg.ModelPath); err != nil {
				return err
			}
			if err := m.CheckLabels(labels); err != nil {
				return err
			}
			logger.Info("resuming", zap.String("model", cfg.ModelPath))
		}

		cache, err := openCache()
		if err != nil {
			return err
		}
		defer cache.Close()

		trainSet, err := examples(ctx, m, cache, train)
		if err != nil {
			return fmt.Errorf("training split: %w", err)
		}
		validationSet, err := examples(ctx, m, cache, validation)
		if err != nil {
			return fmt.Errorf("validation split: %w", err)
		}

		hyper := learning.Defaults()
		hyper.Threads = cfg.Threads
		hyper.Seed = cfg.Seed
		hyper.Logger = logger
		if deadlineMs > 0 {
			hyper.DeadlineMs = deadlineMs
		}
		tr := &trainer.Trainer{
			Net:          &m.Net,
			Train:        trainSet,
			Test:         validationSet,
			Hyper:        hyper,
			Threads:      cfg.Threads,
			Significance: significance,
			Seed:         cfg.Seed,
			Logger:       logger,
		}
		return tr.Run(ctx, cfg.Epochs, func(s trainer.Stats) error {
			fmt.Printf("epoch %d: train %.2f%% validation %.2f%% (%d trained, %d undone)\n",
				s.Epoch, 100*s.TrainAccuracy, 100*s.TestAccuracy, s.Trained, s.Undone)
			return m.Save(cfg.ModelPath)
		})
	},
}

func init() {
	trainCmd.Flags().BoolVar(&resume, "resume", false, "continue training the model at model_path")
	trainCmd.Flags().Uint8Var(&significance, "significance", 0, "check accuracy on a subsample at this confidence percent, 0 checks all")
	trainCmd.Flags().IntVar(&deadlineMs, "deadline-ms", 0, "salt search time per modulo attempt")
}

// generator batches set through the spectrogram cache of m
func generator(m *model.Model, cache *featcache.Cache, set []speechcommands.Sample, shuffle bool) *batch.Generator {
	return &batch.Generator{
		Samples:   set,
		BatchSize: cfg.BatchSize,
		Classes:   m.Labels.Len(),
		Shuffle:   shuffle && cfg.ShuffleBuffer > 0,
		Seed:      cfg.Seed,
		Prefetch:  cfg.Prefetch,
		Threads:   cfg.Threads,
		Progress:  os.Stderr,
		Logger:    logger,
		Extract: func(ctx context.Context, s speechcommands.Sample) (*spectrogram.Spectrogram, error) {
			return cache.Spectrogram(ctx, m.Key(s.Path), func(context.Context) (*spectrogram.Spectrogram, error) {
				return m.File(s.Path)
			})
		},
	}
}

// examples streams one epoch of set and turns every clip into a network sample.
func examples(ctx context.Context, m *model.Model, cache *featcache.Cache, set []speechcommands.Sample) ([]trainer.Sample, error) {
	if len(set) == 0 {
		return nil, errors.New("no samples")
	}
	g := generator(m, cache, set, true)
	batches, errc := g.Stream(ctx, g.StepsPerEpoch())
	out := make([]trainer.Sample, 0, len(set))
	var failed error
	for b := range batches {
		for k, s := range b.Inputs {
			if len(out) == len(set) || failed != nil {
				break
			}
			e, err := m.Example(s, b.Samples[k].Class)
			if err != nil {
				failed = fmt.Errorf("%s: %w", b.Samples[k].Path, err)
				break
			}
			out = append(out, e)
		}
	}
	if err := <-errc; err != nil {
		return nil, err
	}
	if failed != nil {
		return nil, failed
	}
	return out, nil
}
