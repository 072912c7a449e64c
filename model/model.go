// Package model defines the speech command classifier network and its file format.
package model

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"

	"github.com/neurlang/speechcommands/datasets/speechcommands"
	"github.com/neurlang/speechcommands/layer/conv2d"
	"github.com/neurlang/speechcommands/layer/majpool2d"
	"github.com/neurlang/speechcommands/net/feedforward"
	"github.com/neurlang/speechcommands/spectrogram"
	"github.com/neurlang/speechcommands/trainer"
)

// ErrLabelsMismatch is returned when data labels differ from the model labels
var ErrLabelsMismatch = errors.New("model: labels mismatch")

// Architecture sizes the network input
type Architecture struct {
	Grid   int `msgpack:"grid" yaml:"grid"`     // the spectrogram is pooled to Grid x Grid cells
	Levels int `msgpack:"levels" yaml:"levels"` // each cell is quantized into Levels levels
}

// DefaultArchitecture pools to 16x16 cells of 4 levels.
func DefaultArchitecture() Architecture {
	return Architecture{Grid: 16, Levels: 4}
}

// Model is the trained classifier together with everything needed to feed it.
type Model struct {
	Frontend
	Labels *speechcommands.Labels
	Arch   Architecture
	Net    feedforward.FeedforwardNetwork
}

// New builds an untrained model: a hashtron per 2x2 input patch, a 4x4 bit
// convolution, a hashtron per window, a 4x4 majority pool and one multi-bit
// hashtron voting the class.
func New(labels *speechcommands.Labels, front Frontend, arch Architecture) (*Model, error) {
	if labels == nil || labels.Len() < 2 {
		return nil, fmt.Errorf("model: at least 2 labels are needed")
	}
	if arch.Grid < 8 || arch.Grid%4 != 0 {
		return nil, fmt.Errorf("model: grid %d must be a multiple of 4, at least 8", arch.Grid)
	}
	if arch.Levels < 2 || arch.Levels > 256 {
		return nil, fmt.Errorf("model: %d levels out of range 2..256", arch.Levels)
	}
	classBits := bits.Len(uint(labels.Len() - 1))
	if classBits > 16 {
		return nil, fmt.Errorf("model: %d labels do not fit 16 bits", labels.Len())
	}

	m := &Model{Frontend: front, Labels: labels, Arch: arch}

	l0 := arch.Grid - 1
	conv, err := conv2d.New(l0, l0, 4, 4, 1)
	if err != nil {
		return nil, err
	}
	l1 := l0 - 3
	pool, err := majpool2d.New(4, 4, l1/4, l1/4, 1)
	if err != nil {
		return nil, err
	}

	m.Net.NewLayer(l0*l0, 0)
	m.Net.NewCombiner(conv)
	m.Net.NewLayer(conv.Features(), 0)
	m.Net.NewCombiner(pool)
	m.Net.NewLayer(1, byte(classBits))
	return m, nil
}

// Input pools the spectrogram into the network input image.
func (m *Model) Input(s *spectrogram.Spectrogram) (*spectrogram.Image, error) {
	return s.Grid(m.Arch.Grid, m.Arch.Levels)
}

// Classify returns the class index voted for the spectrogram.
func (m *Model) Classify(s *spectrogram.Spectrogram) (int, error) {
	img, err := m.Input(s)
	if err != nil {
		return -1, err
	}
	return m.classify(img), nil
}

func (m *Model) classify(img *spectrogram.Image) int {
	// codes past the last label wrap around
	return int(m.Net.Infer(img)) % m.Labels.Len()
}

// Probabilities returns one row of class probabilities. A hashtron network votes
// for exactly one class, so the row is one-hot.
func (m *Model) Probabilities(s *spectrogram.Spectrogram) ([]float32, error) {
	class, err := m.Classify(s)
	if err != nil {
		return nil, err
	}
	row := make([]float32, m.Labels.Len())
	row[class] = 1
	return row, nil
}

// Example is a training sample of the network
type Example struct {
	*spectrogram.Image
	Class uint16
}

// Output is the expected class
func (e Example) Output() uint16 {
	return e.Class
}

// Example pairs the input of the spectrogram with its class.
func (m *Model) Example(s *spectrogram.Spectrogram, class int) (trainer.Sample, error) {
	if class < 0 || class >= m.Labels.Len() {
		return nil, fmt.Errorf("model: class %d outside %d labels", class, m.Labels.Len())
	}
	img, err := m.Input(s)
	if err != nil {
		return nil, err
	}
	return Example{Image: img, Class: uint16(class)}, nil
}

// CheckLabels reports ErrLabelsMismatch unless labels equal the model labels.
func (m *Model) CheckLabels(labels *speechcommands.Labels) error {
	if !slices.Equal(m.Labels.Names(), labels.Names()) {
		return fmt.Errorf("%w: model has %v, data has %v", ErrLabelsMismatch, m.Labels.Names(), labels.Names())
	}
	return nil
}
