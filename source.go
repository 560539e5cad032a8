package cropview

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// SourceFile is a file handed over by a picker or drop event. Size and Type
// are what the host reported and are not trusted beyond first-pass checks.
type SourceFile struct {
	Name string
	Size int64
	Type string

	r io.Reader
}

// NewSourceFile wraps r with its declared metadata. The reader is consumed
// at most once, by the loader.
func NewSourceFile(name, mimeType string, size int64, r io.Reader) SourceFile {
	return SourceFile{Name: name, Size: size, Type: mimeType, r: r}
}

// SourceFromBytes is NewSourceFile for an in-memory file.
func SourceFromBytes(name, mimeType string, b []byte) SourceFile {
	return NewSourceFile(name, mimeType, int64(len(b)), bytes.NewReader(b))
}

// FirstFile picks the file to process out of a (possibly multi-file)
// selection.
func FirstFile(files []SourceFile) (SourceFile, bool) {
	if len(files) == 0 {
		return SourceFile{}, false
	}
	return files[0], true
}

// TypeByName is the MIME type a host would report for a file name, based on
// its extension only. Unknown extensions give "".
func TypeByName(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
