package model

import (
	"fmt"

	"github.com/neurlang/speechcommands/spectrogram"
	"github.com/neurlang/speechcommands/wave"
)

// Frontend turns audio into spectrograms of a fixed clip length.
type Frontend struct {
	SampleRate int                `msgpack:"sample_rate"`
	ClipMs     int                `msgpack:"clip_ms"` // zero keeps the clip length
	Params     spectrogram.Params `msgpack:"params"`
}

// Audio computes the spectrogram of a, which is resampled and fitted to the clip length.
func (f Frontend) Audio(a *wave.Audio) (*spectrogram.Spectrogram, error) {
	if err := a.Resample(f.SampleRate); err != nil {
		return nil, err
	}
	if f.ClipMs > 0 {
		a.Fit(f.ClipMs * f.SampleRate / 1000)
	}
	return spectrogram.Compute(a.Samples, a.Rate, f.Params)
}

// File computes the spectrogram of the WAV file at path.
func (f Frontend) File(path string) (*spectrogram.Spectrogram, error) {
	a, err := wave.ReadFile(path, f.SampleRate)
	if err != nil {
		return nil, err
	}
	s, err := f.Audio(a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Key names the spectrogram of path under this frontend for caching
func (f Frontend) Key(path string) string {
	p := f.Params
	return fmt.Sprintf("%d/%d/%g/%g/%g/%g/%s", f.SampleRate, f.ClipMs, p.StepMs, p.WindowMs, p.MaxFreq, p.Eps, path)
}
