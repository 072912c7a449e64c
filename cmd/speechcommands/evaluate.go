package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurlang/speechcommands/batch"
	"github.com/neurlang/speechcommands/confusion"
	"github.com/neurlang/speechcommands/model"
	"github.com/neurlang/speechcommands/spectrogram"
)

var csvPath string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Print the confusion matrix on the testing split",
	Long: `Classify every clip of the testing split with the model at model_path
and print the confusion matrix.

Examples:
  speechcommands evaluate
  speechcommands evaluate --csv confusion.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := model.Load(cfg.ModelPath)
		if err != nil {
			return err
		}
		_, _, test, labels, err := dataset()
		if err != nil {
			return err
		}
		if err := m.CheckLabels(labels); err != nil {
			return err
		}
		if len(test) == 0 {
			return fmt.Errorf("testing split of %s is empty", cfg.DataDir)
		}

		cache, err := openCache()
		if err != nil {
			return err
		}
		defer cache.Close()

		g := generator(m, cache, test, false)
		var failed error
		probs, actual, err := batch.Predict(cmd.Context(), g, g.StepsPerEpoch(), func(s *spectrogram.Spectrogram) []float32 {
			row, err := m.Probabilities(s)
			if err != nil && failed == nil {
				failed = err
			}
			return row
		})
		if err != nil {
			return err
		}
		if failed != nil {
			return failed
		}

		// the last batch wraps around to the first clips
		probs, actual = probs[:len(test)], actual[:len(test)]
		matrix := confusion.New(m.Labels.Names())
		if err := matrix.AddRows(probs, actual); err != nil {
			return err
		}
		fmt.Println(matrix.Render())

		if csvPath == "" {
			return nil
		}
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		if err := matrix.WriteCSV(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&csvPath, "csv", "", "also write the matrix as CSV to this file")
}
