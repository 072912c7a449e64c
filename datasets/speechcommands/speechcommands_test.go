package speechcommands

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func touch(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
}

func TestEnumerate(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "yes", "b_nohash_0.wav"))
	touch(t, filepath.Join(dir, "yes", "a_nohash_0.wav"))
	touch(t, filepath.Join(dir, "no", "c_nohash_1.wav"))
	touch(t, filepath.Join(dir, "no", "README.md"))
	touch(t, filepath.Join(dir, BackgroundNoise, "white_noise.wav"))
	touch(t, filepath.Join(dir, "validation_list.txt"))

	samples, err := Enumerate(dir)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, "no", samples[0].Label)
	assert.Equal(t, "yes/a_nohash_0.wav", samples[1].Key())
	assert.Equal(t, -1, samples[2].Class)

	_, err = Enumerate(t.TempDir())
	assert.Error(t, err)
}

func TestLabelsBijection(t *testing.T) {
	labels := NewLabels([]string{"yes", "no", "yes", "up"})
	assert.Equal(t, 3, labels.Len())
	assert.Equal(t, []string{"no", "up", "yes"}, labels.Names())
	for i := 0; i < labels.Len(); i++ {
		j, err := labels.Index(labels.Name(i))
		require.NoError(t, err)
		assert.Equal(t, i, j)
	}
	_, err := labels.Index("maybe")
	assert.ErrorIs(t, err, ErrUnknownLabel)
	assert.Equal(t, "", labels.Name(3))

	train := []Sample{{Label: "yes"}, {Label: "no"}}
	test := []Sample{{Label: "no"}, {Label: "up"}}
	require.NoError(t, labels.Assign(train))
	require.NoError(t, labels.Assign(test))
	assert.Equal(t, train[1].Class, test[0].Class)
	assert.ErrorIs(t, labels.Assign([]Sample{{Label: "maybe"}}), ErrUnknownLabel)

	all := NewLabels(Words)
	assert.Equal(t, 30, all.Len())
}

func TestWhichSet(t *testing.T) {
	// clips of one speaker share the split
	assert.Equal(t,
		WhichSet("yes/0a7c2a8d_nohash_0.wav", 10, 10),
		WhichSet("no/0a7c2a8d_nohash_3.wav", 10, 10))

	counts := map[Set]int{}
	for i := 0; i < 2000; i++ {
		counts[WhichSet(fmt.Sprintf("%08x_nohash_0.wav", i*7919), 10, 10)]++
	}
	assert.InDelta(t, 200, counts[Validation], 80)
	assert.InDelta(t, 200, counts[Testing], 80)
	assert.InDelta(t, 1600, counts[Training], 120)

	assert.Equal(t, Training, WhichSet("x_nohash_0.wav", 0, 0))
	assert.Equal(t, Validation, WhichSet("x_nohash_0.wav", 100, 0))
}

func TestSplitLists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "validation_list.txt"), []byte("yes/a.wav\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "testing_list.txt"), []byte("no/b.wav\n\n"), 0o644))
	samples := []Sample{
		{Path: filepath.Join(dir, "yes", "a.wav"), Label: "yes"},
		{Path: filepath.Join(dir, "no", "b.wav"), Label: "no"},
		{Path: filepath.Join(dir, "no", "c.wav"), Label: "no"},
	}
	train, validation, test, err := Split(dir, samples, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, samples[2:], train)
	assert.Equal(t, samples[:1], validation)
	assert.Equal(t, samples[1:2], test)
}

func TestSplitHashFallback(t *testing.T) {
	var samples []Sample
	for i := 0; i < 100; i++ {
		samples = append(samples, Sample{Path: fmt.Sprintf("yes/%04d_nohash_0.wav", i), Label: "yes"})
	}
	train, validation, test, err := Split(t.TempDir(), samples, 20, 20)
	require.NoError(t, err)
	assert.Len(t, train, 100-len(validation)-len(test))
	for _, s := range test {
		assert.Equal(t, Testing, WhichSet(s.Path, 20, 20))
	}
}

func tarball(t *testing.T, files map[string]string) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "a.tar.gz")
	require.NoError(t, os.WriteFile(archive, tarball(t, map[string]string{
		"./yes/a_nohash_0.wav": "RIFF",
		"testing_list.txt":     "yes/a_nohash_0.wav\n",
	}), 0o644))

	out := filepath.Join(dir, "out")
	require.NoError(t, Extract(context.Background(), archive, out))
	body, err := os.ReadFile(filepath.Join(out, "yes", "a_nohash_0.wav"))
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(body))

	evil := filepath.Join(dir, "evil.tar.gz")
	require.NoError(t, os.WriteFile(evil, tarball(t, map[string]string{"../escape.txt": "x"}), 0o644))
	assert.Error(t, Extract(context.Background(), evil, out))
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownload(t *testing.T) {
	payload := []byte("speech commands archive")
	sum := sha256.Sum256(payload)
	good := hex.EncodeToString(sum[:])

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(payload)
	}))
	defer srv.Close()

	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	dst := filepath.Join(t.TempDir(), "cache", "archive.tar.gz")

	require.NoError(t, Download(ctx, srv.URL, dst, good, nil, logger))
	body, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
	assert.Equal(t, int32(1), hits.Load())

	// cached and verified
	require.NoError(t, Download(ctx, srv.URL, dst, good, nil, logger))
	assert.Equal(t, int32(1), hits.Load())

	other := filepath.Join(t.TempDir(), "other.tar.gz")
	err = Download(ctx, srv.URL, other, "00", nil, logger)
	assert.ErrorIs(t, err, ErrChecksum)
	_, err = os.Stat(other)
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	err := Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "a"), "", nil, nil)
	assert.Error(t, err)
}
