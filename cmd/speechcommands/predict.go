package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurlang/speechcommands/inference"
	"github.com/neurlang/speechcommands/model"
)

var predictCmd = &cobra.Command{
	Use:   "predict <file.wav>...",
	Short: "Classify WAV files",
	Long: `Classify each WAV file with the model at model_path and print
the file name and the predicted word.

Examples:
  speechcommands predict yes.wav no.wav`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := model.Load(cfg.ModelPath)
		if err != nil {
			return err
		}
		results, err := inference.FromFiles(cmd.Context(), m, args, cfg.Threads)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%s\t%s\n", r.Path, r.Label)
		}
		return nil
	},
}
