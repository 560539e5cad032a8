package zstdx

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	seekable "github.com/SaveTheRbtz/zstd-seekable-format-go"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/sebnyberg/cropview"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 0x80, 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func compressSeekable(t *testing.T, data []byte, chunk int) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	require.NoError(t, err)
	defer enc.Close()
	var out bytes.Buffer
	w, err := seekable.NewWriter(&out, enc)
	require.NoError(t, err)
	for len(data) > 0 {
		n := min(chunk, len(data))
		_, err := w.Write(data[:n])
		require.NoError(t, err)
		data = data[n:]
	}
	require.NoError(t, w.Close())
	return out.Bytes()
}

func TestOpen(t *testing.T) {
	data := pngBytes(t, 64, 700)
	src, err := Open("tall.png.zst", bytes.NewReader(compress(t, data)), 0)
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, "tall.png", src.Name)
	require.Equal(t, "image/png", src.Type)
	require.Equal(t, int64(len(data)), src.Size)

	buf, err := cropview.Load(context.Background(), src.SourceFile)
	require.NoError(t, err)
	require.Equal(t, cropview.ByteBuffer(data), buf)
}

func TestOpenSeekable(t *testing.T) {
	data := pngBytes(t, 64, 700)
	raw := compressSeekable(t, data, 1024)

	ok, err := IsSeekable(bytes.NewReader(raw))
	require.NoError(t, err)
	require.True(t, ok)

	src, err := OpenSeekable("tall.png.zst", bytes.NewReader(raw))
	require.NoError(t, err)
	defer src.Close()
	require.Equal(t, int64(len(data)), src.Size)

	p := cropview.New()
	res, err := p.Process(context.Background(), src.SourceFile)
	require.NoError(t, err)
	require.Equal(t, 64, res.Width)
	require.Equal(t, 500, res.Height)
}

func TestIsSeekablePlain(t *testing.T) {
	ok, err := IsSeekable(bytes.NewReader(compress(t, []byte("hello hello hello"))))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = IsSeekable(bytes.NewReader([]byte{1, 2}))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenNotZstd(t *testing.T) {
	_, err := Open("a.png.zst", bytes.NewReader([]byte("plainly not zstd data")), 0)
	require.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t, 32, 40)

	plain := filepath.Join(dir, "small.png.zst")
	require.NoError(t, os.WriteFile(plain, compress(t, data), 0o644))
	seek := filepath.Join(dir, "small-seek.png.zst")
	require.NoError(t, os.WriteFile(seek, compressSeekable(t, data, 256), 0o644))

	for _, path := range []string{plain, seek} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := OpenFile(path, 0)
			require.NoError(t, err)
			defer func() { require.NoError(t, src.Close()) }()

			p := cropview.New()
			res, err := p.Process(context.Background(), src.SourceFile)
			require.NoError(t, err)
			require.Equal(t, 32, res.Width)
			require.Equal(t, 40, res.Height)
		})
	}
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.zst"), 0)
	require.Error(t, err)
}

func TestOpenWithoutContentSize(t *testing.T) {
	for _, size := range []struct{ w, h int }{{4, 4}, {32, 40}} {
		data := pngBytes(t, size.w, size.h)
		raw := compress(t, data)

		var h zstd.Header
		require.NoError(t, h.Decode(raw))
		require.False(t, h.HasFCS)

		src, err := Open("small.png.zst", bytes.NewReader(raw), 0)
		require.NoError(t, err)
		require.Equal(t, int64(len(data)), src.Size)

		p := cropview.New()
		res, err := p.Process(context.Background(), src.SourceFile)
		require.NoError(t, err)
		require.Equal(t, size.w, res.Width)
		require.Equal(t, size.h, res.Height)
		require.NoError(t, src.Close())
	}
}

func TestOpenWithoutContentSizeOversized(t *testing.T) {
	data := pngBytes(t, 4, 4)
	src, err := Open("small.png.zst", bytes.NewReader(compress(t, data)), 16)
	require.NoError(t, err)
	defer src.Close()
	require.Equal(t, int64(17), src.Size)

	lim := cropview.DefaultLimits()
	lim.MaxFileSize = 16
	p := cropview.New(cropview.WithLimits(lim))
	_, err = p.Process(context.Background(), src.SourceFile)
	require.ErrorIs(t, err, cropview.ErrOversizedFile)
}
