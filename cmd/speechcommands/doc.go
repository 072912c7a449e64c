// Package main provides the speechcommands program: it downloads the Speech Commands
// dataset, trains a hashtron network on spectrograms of the clips, evaluates it into a
// confusion matrix and classifies WAV files, using integer-only learning on CPU.
//
// Usage:
//
//	speechcommands [--config file.yaml] [--log-level level] <command> [args]
//
// Commands:
//
//	download - fetch and unpack the dataset archive
//	train    - train a model on the training split
//	evaluate - print the confusion matrix of a model on the testing split
//	predict  - classify WAV files
package main
