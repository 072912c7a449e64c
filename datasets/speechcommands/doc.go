// Package speechcommands provides the speech commands dataset for audio and speech classification tasks.
// It downloads and unpacks the archive, enumerates the labelled clips and splits them
// into training, validation and testing sets the way the dataset authors do.
package speechcommands
