package hashtron

import "fmt"

import "github.com/vmihailenco/msgpack/v5"

var _ msgpack.CustomEncoder = (*Hashtron)(nil)
var _ msgpack.CustomDecoder = (*Hashtron)(nil)

// EncodeMsgpack writes the hashtron as [salt, modulo, bits, filter]
func (h *Hashtron) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(4); err != nil {
		return err
	}
	if err := enc.EncodeUint32(h.salt); err != nil {
		return err
	}
	if err := enc.EncodeUint32(h.modulo); err != nil {
		return err
	}
	if err := enc.EncodeUint8(h.bits); err != nil {
		return err
	}
	return enc.EncodeBytes(h.filter)
}

// DecodeMsgpack reads the hashtron written by EncodeMsgpack
func (h *Hashtron) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 4 {
		return fmt.Errorf("hashtron: expected 4 fields, got %d", n)
	}
	if h.salt, err = dec.DecodeUint32(); err != nil {
		return err
	}
	if h.modulo, err = dec.DecodeUint32(); err != nil {
		return err
	}
	if h.bits, err = dec.DecodeUint8(); err != nil {
		return err
	}
	filter, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	h.filter = filter
	if h.modulo == 0 {
		return fmt.Errorf("hashtron: modulo is zero")
	}
	return nil
}
