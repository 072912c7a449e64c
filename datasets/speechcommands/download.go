package speechcommands

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
)

// ArchiveURL is the version 0.01 archive with 30 words
const ArchiveURL = "http://download.tensorflow.org/data/speech_commands_v0.01.tar.gz"

// ErrChecksum is returned when the archive does not match the expected sha256
var ErrChecksum = errors.New("speechcommands: checksum mismatch")

// fileSum returns the hex sha256 of the file at path
func fileSum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("cannot hash file '%s': %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Download fetches url into dst unless dst already exists and matches sum.
// An empty sum accepts any existing file. Progress is drawn to progress, which may be nil.
func Download(ctx context.Context, url, dst, sum string, progress io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(dst); err == nil {
		if sum == "" {
			logger.Info("archive cached", zap.String("path", dst))
			return nil
		}
		have, err := fileSum(dst)
		if err != nil {
			return err
		}
		if strings.EqualFold(have, sum) {
			logger.Info("archive cached and verified", zap.String("path", dst))
			return nil
		}
		logger.Warn("cached archive checksum mismatch, downloading again",
			zap.String("path", dst), zap.String("have", have), zap.String("want", sum))
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	logger.Info("downloading", zap.String("url", url), zap.String("path", dst))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: %s", url, resp.Status)
	}

	part := dst + ".part"
	f, err := os.Create(part)
	if err != nil {
		return err
	}

	p := mpb.NewWithContext(ctx, mpb.WithOutput(progress), mpb.WithWidth(64))
	total := max(resp.ContentLength, 0)
	bar := p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(filepath.Base(dst), decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			decor.CountersKibiByte("% .2f / % .2f"),
		),
		mpb.AppendDecorators(
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
			decor.Name(" ] "),
			decor.Percentage(),
		),
	)
	body := bar.ProxyReader(resp.Body)
	if body == nil {
		f.Close()
		os.Remove(part)
		return ctx.Err()
	}

	h := sha256.New()
	_, err = io.Copy(io.MultiWriter(f, h), body)
	body.Close()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		bar.Abort(false)
		p.Wait()
		os.Remove(part)
		return fmt.Errorf("download %s: %w", url, err)
	}
	if total == 0 {
		bar.SetTotal(-1, true)
	}
	p.Wait()

	if have := hex.EncodeToString(h.Sum(nil)); sum != "" && !strings.EqualFold(have, sum) {
		os.Remove(part)
		return fmt.Errorf("%w: %s has %s, expected %s", ErrChecksum, url, have, sum)
	}
	return os.Rename(part, dst)
}

// Extract unpacks the tar.gz archive into dir. Entries escaping dir are rejected.
func Extract(ctx context.Context, archive, dir string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gzip file '%s': %w", archive, err)
	}
	defer gz.Close()

	root := filepath.Clean(dir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}
	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar file '%s': %w", archive, err)
		}
		target := filepath.Join(root, hdr.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("tar entry '%s' escapes '%s'", hdr.Name, dir)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr); err != nil {
				return err
			}
		}
	}
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
