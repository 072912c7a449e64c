package speechcommands

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownLabel is returned for a label outside the mapping
var ErrUnknownLabel = errors.New("speechcommands: unknown label")

// Labels is a stable bijection between label names and class indexes.
// Indexes follow the sorted order of the names.
type Labels struct {
	names []string
	index map[string]int
}

// NewLabels builds the mapping from the distinct names.
func NewLabels(names []string) *Labels {
	l := &Labels{index: make(map[string]int)}
	for _, n := range names {
		if _, ok := l.index[n]; !ok {
			l.index[n] = 0
			l.names = append(l.names, n)
		}
	}
	sort.Strings(l.names)
	for i, n := range l.names {
		l.index[n] = i
	}
	return l
}

// LabelsOf builds the mapping from the labels encountered in samples.
func LabelsOf(samples []Sample) *Labels {
	names := make([]string, len(samples))
	for i := range samples {
		names[i] = samples[i].Label
	}
	return NewLabels(names)
}

// Index returns the class of name.
func (l *Labels) Index(name string) (int, error) {
	i, ok := l.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
	}
	return i, nil
}

// Name returns the label of class i.
func (l *Labels) Name(i int) string {
	if i < 0 || i >= len(l.names) {
		return ""
	}
	return l.names[i]
}

// Len is the number of classes
func (l *Labels) Len() int {
	return len(l.names)
}

// Names returns the labels in class order.
func (l *Labels) Names() []string {
	return append([]string(nil), l.names...)
}

// Assign sets Class of every sample.
func (l *Labels) Assign(samples []Sample) error {
	for i := range samples {
		c, err := l.Index(samples[i].Label)
		if err != nil {
			return fmt.Errorf("%s: %w", samples[i].Path, err)
		}
		samples[i].Class = c
	}
	return nil
}
