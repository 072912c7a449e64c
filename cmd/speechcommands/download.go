package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurlang/speechcommands/datasets/speechcommands"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download and unpack the dataset",
	Long: `Download the archive at archive_url into data_dir and unpack it there.
An existing archive matching archive_sha256 is not downloaded again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return err
		}
		archive := archivePath()
		if err := speechcommands.Download(cmd.Context(), cfg.ArchiveURL, archive, cfg.ArchiveSHA256, os.Stderr, logger); err != nil {
			return err
		}
		logger.Info("extracting", zap.String("archive", archive), zap.String("dir", cfg.DataDir))
		return speechcommands.Extract(cmd.Context(), archive, cfg.DataDir)
	},
}
