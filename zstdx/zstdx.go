// Package zstdx opens zstd-compressed images as cropview sources.
//
// The decompressed size is declared up front so the intake checks can run
// before the image is read. Plain zstd streams declare the frame content size
// from their first frame header when it is there; otherwise up to maxSize+1
// bytes are decompressed to count them. Seekable zstd files have the size in
// their seek table.
package zstdx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	seekable "github.com/SaveTheRbtz/zstd-seekable-format-go"
	"github.com/klauspost/compress/zstd"

	"github.com/sebnyberg/cropview"
)

// Ext is the file extension recognized by OpenFile.
const Ext = ".zst"

// seekableMagic ends every seekable zstd file.
const seekableMagic = 0x8F92EAB1

// Source is a decompressing cropview.SourceFile. Close releases the
// decompressor and the underlying file, if any.
type Source struct {
	cropview.SourceFile
	closers []func() error
}

func (s *Source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open opens a plain zstd stream. The declared size is the content size from
// the first frame header; the loader rejects streams whose frames add up to
// anything else.
//
// Streams without a content size are decompressed into memory, at most
// maxSize+1 bytes. If there is more than maxSize the declared size is
// maxSize+1, which the intake size check rejects. A maxSize of zero or less
// means cropview.DefaultMaxFileSize.
func Open(name string, rs io.ReadSeeker, maxSize int64) (*Source, error) {
	var hdr [zstd.HeaderMaxSize]byte
	n, err := io.ReadFull(rs, hdr[:])
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read zstd header %q err, %w", name, err)
	}
	var h zstd.Header
	if err := h.Decode(hdr[:n]); err != nil {
		return nil, fmt.Errorf("decode zstd header %q err, %w", name, err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("init zstd reader err, %w", err)
	}
	closeDec := func() error {
		dec.Close()
		return nil
	}
	if h.HasFCS {
		return newSource(name, int64(h.FrameContentSize), dec, closeDec), nil
	}

	if maxSize <= 0 {
		maxSize = cropview.DefaultMaxFileSize
	}
	var buf bytes.Buffer
	size, err := buf.ReadFrom(io.LimitReader(dec, maxSize+1))
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("decompress %q err, %w", name, err)
	}
	if size > maxSize {
		return newSource(name, size, io.MultiReader(&buf, dec), closeDec), nil
	}
	dec.Close()
	return newSource(name, size, &buf, func() error { return nil }), nil
}

// OpenSeekable opens a seekable zstd file. The size is found by seeking to
// the end of the decompressed stream, which only reads the seek table.
func OpenSeekable(name string, rs io.ReadSeeker) (*Source, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd decoder err, %w", err)
	}
	r, err := seekable.NewReader(rs, dec)
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("open seekable zstd %q err, %w", name, err)
	}
	closeAll := func() error {
		err := r.Close()
		dec.Close()
		return err
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = r.Seek(0, io.SeekStart)
	}
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("seek seekable zstd %q err, %w", name, err)
	}
	return newSource(name, size, r, closeAll), nil
}

// IsSeekable reports whether rs ends with a seekable zstd seek table. The
// read position is restored to the start.
func IsSeekable(rs io.ReadSeeker) (bool, error) {
	if _, err := rs.Seek(-4, io.SeekEnd); err != nil {
		// Shorter than the footer.
		_, serr := rs.Seek(0, io.SeekStart)
		return false, serr
	}
	var b [4]byte
	if _, err := io.ReadFull(rs, b[:]); err != nil {
		return false, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	return binary.LittleEndian.Uint32(b[:]) == seekableMagic, nil
}

// OpenFile opens a .zst file from disk, seekable or not. The declared type is
// derived from the name without the .zst suffix. maxSize is passed to Open.
func OpenFile(path string, maxSize int64) (*Source, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open file %q err, %w", path, err)
	}
	name := filepath.Base(path)

	ok, err := IsSeekable(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("inspect %q err, %w", path, err)
	}
	var src *Source
	if ok {
		src, err = OpenSeekable(name, f)
	} else {
		src, err = Open(name, f, maxSize)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closers = append([]func() error{f.Close}, src.closers...)
	return src, nil
}

func newSource(name string, size int64, r io.Reader, closer func() error) *Source {
	inner := strings.TrimSuffix(name, Ext)
	return &Source{
		SourceFile: cropview.NewSourceFile(inner, cropview.TypeByName(inner), size, r),
		closers:    []func() error{closer},
	}
}
