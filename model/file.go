package model

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/neurlang/speechcommands/datasets/speechcommands"
)

const magic = "HTSC"

// header precedes the network weights in a model file
type header struct {
	Version  int          `msgpack:"version"`
	Labels   []string     `msgpack:"labels"`
	Frontend Frontend     `msgpack:"frontend"`
	Arch     Architecture `msgpack:"arch"`
}

// Write writes the model: magic, the header length, the msgpack header and the weights.
func (m *Model) Write(w io.Writer) error {
	buf, err := msgpack.Marshal(&header{Version: 1, Labels: m.Labels.Names(), Frontend: m.Frontend, Arch: m.Arch})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(buf))); err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	return m.Net.WriteWeights(w)
}

// Read reads a model written by Write.
func Read(r io.Reader) (*Model, error) {
	var mg [len(magic)]byte
	if _, err := io.ReadFull(r, mg[:]); err != nil {
		return nil, err
	}
	if string(mg[:]) != magic {
		return nil, fmt.Errorf("model: not a model file")
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	var h header
	if err := msgpack.Unmarshal(buf, &h); err != nil {
		return nil, fmt.Errorf("model: header: %w", err)
	}
	if h.Version != 1 {
		return nil, fmt.Errorf("model: unsupported version %d", h.Version)
	}
	m, err := New(speechcommands.NewLabels(h.Labels), h.Frontend, h.Arch)
	if err != nil {
		return nil, err
	}
	if err := m.Net.ReadWeights(r); err != nil {
		return nil, fmt.Errorf("model: weights: %w", err)
	}
	return m, nil
}

// Save writes the model to path.
func (m *Model) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := m.Write(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads the model at path.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
