// Package trainer retrains a hashtron network one cell at a time: the training
// set is tallied against the cell, a new cell is solved for the tally and kept
// only if the network got no worse. Accuracy checks may run on a subsample.
package trainer
