package cropview

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// gradient returns a w x h image whose rows get darker towards the bottom,
// so a top crop is distinguishable from a scaled one.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := uint8(255 - (y*255)/max(h, 1))
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{v, uint8(x), v, 0xFF})
		}
	}
	return img
}

func jpegFixture(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradient(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func pngFixture(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(w, h)))
	return buf.Bytes()
}

// countingReader records how many bytes were pulled from r.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// fakeDecoder returns a fixed image or error. If release is set, Decode
// blocks until it is closed. If released is set, it is closed when the
// returned image is released.
type fakeDecoder struct {
	img      image.Image
	err      error
	release  chan struct{}
	released chan struct{}

	mu       sync.Mutex
	calls    int
	returned chan struct{}
}

func (d *fakeDecoder) Decode(ctx context.Context, buf ByteBuffer, contentType string) (*DecodedImage, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.returned != nil {
		defer close(d.returned)
	}
	if d.release != nil {
		<-d.release
	}
	if d.err != nil {
		return nil, d.err
	}
	img := NewDecodedImage(d.img, "fake")
	if d.released != nil {
		img.onRelease = func() { close(d.released) }
	}
	return img, nil
}

func (d *fakeDecoder) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// countingNative is a NativeDecoder that counts full decodes.
type countingNative struct {
	NativeDecoder
	decodes atomic.Int32
}

func (c *countingNative) Decode(ctx context.Context, buf ByteBuffer, contentType string) (*DecodedImage, error) {
	c.decodes.Add(1)
	return c.NativeDecoder.Decode(ctx, buf, contentType)
}

// pngHeader returns a PNG whose header claims w x h but which carries the
// pixel data of a 1x1 image. Only DecodeConfig can succeed on it.
func pngHeader(t testing.TB, w, h int) []byte {
	t.Helper()
	b := append([]byte(nil), pngFixture(t, 1, 1)...)
	// 8 byte signature, then IHDR: length, type, width, height ... crc.
	binary.BigEndian.PutUint32(b[16:20], uint32(w))
	binary.BigEndian.PutUint32(b[20:24], uint32(h))
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

// sizedImage reports arbitrary bounds without allocating pixels.
type sizedImage struct {
	w, h int
}

func (s sizedImage) ColorModel() color.Model { return color.RGBAModel }
func (s sizedImage) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }
func (s sizedImage) At(x, y int) color.Color { return color.RGBA{0x10, 0x20, 0x30, 0xFF} }
