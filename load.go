package cropview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
)

// maxPrealloc caps the buffer reserved from the declared size before any
// bytes arrive. Larger files grow the buffer as they are read.
const maxPrealloc = 64 << 20

// ByteBuffer holds the complete contents of a SourceFile. It is never
// modified after Load returns it.
type ByteBuffer []byte

type loadResult struct {
	buf ByteBuffer
	err error
}

// Load reads the whole of src into memory. The read runs in its own
// goroutine; if ctx is done first, Load returns ctx.Err() and the read result
// is discarded.
//
// The stream must hold exactly src.Size bytes. A shorter or longer stream is
// a ReadFailure rather than a silently truncated buffer.
func Load(ctx context.Context, src SourceFile) (ByteBuffer, error) {
	if src.r == nil {
		return nil, newError(KindReadFailure, nil, "%q has no readable contents", src.Name)
	}
	if src.Size < 0 {
		return nil, newError(KindReadFailure, nil, "%q has invalid size %d", src.Name, src.Size)
	}

	done := make(chan loadResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- loadResult{err: newError(KindReadFailure, fmt.Errorf("%v", r), "read %q err", src.Name)}
			}
		}()
		buf, err := readExact(src)
		done <- loadResult{buf: buf, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.buf, res.err
	}
}

func readExact(src SourceFile) (ByteBuffer, error) {
	var b bytes.Buffer
	if src.Size <= maxPrealloc {
		b.Grow(int(src.Size))
	}

	// Read one byte past the declared size to catch streams that are longer.
	limit := src.Size
	if limit < math.MaxInt64 {
		limit++
	}
	n, err := b.ReadFrom(io.LimitReader(src.r, limit))
	if err != nil {
		return nil, newError(KindReadFailure, err, "read %q err", src.Name)
	}
	switch {
	case n < src.Size:
		return nil, newError(KindReadFailure, nil,
			"%q ended after %d of %d bytes", src.Name, n, src.Size)
	case n > src.Size:
		return nil, newError(KindReadFailure, nil,
			"%q is larger than its declared %d bytes", src.Name, src.Size)
	}
	return b.Bytes(), nil
}
