// Package confusion tallies predictions against expected classes and renders the confusion matrix.
package confusion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Matrix counts predictions, Counts[actual][predicted]
type Matrix struct {
	Labels []string
	Counts [][]int
}

// New creates an empty matrix over labels.
func New(labels []string) *Matrix {
	m := &Matrix{Labels: append([]string(nil), labels...), Counts: make([][]int, len(labels))}
	for i := range m.Counts {
		m.Counts[i] = make([]int, len(labels))
	}
	return m
}

// Add counts one prediction.
func (m *Matrix) Add(actual, predicted int) error {
	if actual < 0 || actual >= len(m.Labels) || predicted < 0 || predicted >= len(m.Labels) {
		return fmt.Errorf("confusion: pair (%d, %d) outside %d classes", actual, predicted, len(m.Labels))
	}
	m.Counts[actual][predicted]++
	return nil
}

// Argmax returns the index of the largest value, the first one on ties.
func Argmax(row []float32) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}

// AddRows counts the argmax of every probability row against actual.
func (m *Matrix) AddRows(probs [][]float32, actual []int) error {
	if len(probs) != len(actual) {
		return fmt.Errorf("confusion: %d rows, %d labels", len(probs), len(actual))
	}
	for i := range probs {
		if err := m.Add(actual[i], Argmax(probs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Total is the number of counted predictions
func (m *Matrix) Total() (n int) {
	for _, row := range m.Counts {
		for _, c := range row {
			n += c
		}
	}
	return
}

// Accuracy is the fraction of counted predictions on the diagonal
func (m *Matrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	var diag int
	for i := range m.Counts {
		diag += m.Counts[i][i]
	}
	return float64(diag) / float64(total)
}

// Normalized divides every row by its sum, empty rows stay zero.
func (m *Matrix) Normalized() [][]float64 {
	out := make([][]float64, len(m.Counts))
	for i, row := range m.Counts {
		out[i] = make([]float64, len(row))
		var sum int
		for _, c := range row {
			sum += c
		}
		if sum == 0 {
			continue
		}
		for j, c := range row {
			out[i][j] = float64(c) / float64(sum)
		}
	}
	return out
}

// WriteCSV writes a header of labels and one row of counts per actual label.
func (m *Matrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"actual"}, m.Labels...)); err != nil {
		return err
	}
	for i, row := range m.Counts {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, m.Labels[i])
		for _, c := range row {
			rec = append(rec, strconv.Itoa(c))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
