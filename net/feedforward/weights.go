package feedforward

import "compress/lzw"
import "fmt"
import "io"
import "os"

import "github.com/vmihailenco/msgpack/v5"

// WriteWeightsToFile writes model weights to a lzw compressed msgpack file
func (f FeedforwardNetwork) WriteWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = f.WriteWeights(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteWeights writes model weights to a writer
func (f FeedforwardNetwork) WriteWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	enc := msgpack.NewEncoder(lw)

	if err := enc.EncodeArrayLen(f.Len()); err != nil {
		return err
	}
	for i := 0; i < f.Len(); i++ {
		if err := enc.Encode(f.GetHashtron(i)); err != nil {
			return fmt.Errorf("hashtron %d: %w", i, err)
		}
	}
	return lw.Close()
}

// ReadWeightsFromFile reads model weights from a lzw compressed msgpack file
func (f *FeedforwardNetwork) ReadWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return f.ReadWeights(file)
}

// ReadWeights reads model weights from a reader into a network of the same shape
func (f *FeedforwardNetwork) ReadWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()
	dec := msgpack.NewDecoder(lr)

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != f.Len() {
		return fmt.Errorf("weights hold %d hashtrons, network has %d", n, f.Len())
	}
	for i := 0; i < n; i++ {
		h := f.GetHashtron(i)
		bits := h.Bits()
		if err := dec.Decode(h); err != nil {
			return fmt.Errorf("hashtron %d: %w", i, err)
		}
		if h.Bits() != bits {
			return fmt.Errorf("hashtron %d: %d bits, network expects %d", i, h.Bits(), bits)
		}
	}
	return nil
}
