package cropview

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// Validate checks the declared metadata of src. It never touches the file
// contents, so it is run before anything is read.
func Validate(src SourceFile, lim Limits) error {
	if src.Size > lim.MaxFileSize {
		return newError(KindOversizedFile, nil,
			"file is %s, the limit is %s",
			humanize.IBytes(uint64(src.Size)), humanize.IBytes(uint64(lim.MaxFileSize)))
	}
	if !strings.HasPrefix(src.Type, "image/") {
		if src.Type == "" {
			return newError(KindUnsupportedType, nil, "file type unknown, not an image")
		}
		return newError(KindUnsupportedType, nil, "file type %q is not an image", src.Type)
	}
	return nil
}
