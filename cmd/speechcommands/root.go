package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurlang/speechcommands/config"
	"github.com/neurlang/speechcommands/datasets/speechcommands"
	"github.com/neurlang/speechcommands/featcache"
)

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "speechcommands",
	Short: "Keyword spotting with hashtron networks",
	Long: `Train and run a hashtron network classifying one second
Speech Commands clips into their spoken word.

Example config file (speechcommands.yaml):
  data_dir: data
  cache_dir: cache
  batch_size: 64
  epochs: 20
  grid: 16
  levels: 4`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger, err = config.NewLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		return startProfile()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&profilePath, "pgo", "", "write a CPU profile to this file")

	rootCmd.AddCommand(downloadCmd, trainCmd, evaluateCmd, predictCmd)

	// finalizers run even when a command fails
	cobra.OnFinalize(finish)
}

// finish stops the profile and flushes the logger
func finish() {
	stopProfile()
	if logger != nil {
		_ = logger.Sync()
	}
}

// archivePath is where the downloaded archive is kept
func archivePath() string {
	return filepath.Join(cfg.DataDir, filepath.Base(cfg.ArchiveURL))
}

// dataset enumerates the clips under the data directory and splits them.
func dataset() (train, validation, test []speechcommands.Sample, labels *speechcommands.Labels, err error) {
	samples, err := speechcommands.Enumerate(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	labels = speechcommands.LabelsOf(samples)
	if err := labels.Assign(samples); err != nil {
		return nil, nil, nil, nil, err
	}
	train, validation, test, err = speechcommands.Split(cfg.DataDir, samples, cfg.ValidationPercent, cfg.TestingPercent)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger.Info("dataset",
		zap.String("dir", cfg.DataDir),
		zap.Int("labels", labels.Len()),
		zap.Int("train", len(train)),
		zap.Int("validation", len(validation)),
		zap.Int("test", len(test)))
	return train, validation, test, labels, nil
}

// openCache opens the spectrogram cache over openStore.
func openCache() (*featcache.Cache, error) {
	store, err := openStore(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	return featcache.New(store, cfg.CacheSize)
}

// openStore opens badger on disk in dir, or in memory when dir is empty.
func openStore(dir string) (*featcache.Badger, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	b, err := featcache.NewBadger(dir, dir == "", logger)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return b, nil
}
