package cropview

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"strings"

	"golang.org/x/image/draw"
)

const previewMIMEType = "image/jpeg"

var errNotDataURL = errors.New("not a base64 data url")

// CropResult is the encoded preview handed back to the caller.
type CropResult struct {
	// DataURL is a data:image/jpeg;base64 transport string.
	DataURL  string
	MIMEType string
	Width    int
	Height   int
	// Size is the length of the encoded JPEG in bytes.
	Size int
}

// Crop copies the top height rows of img into a new surface and encodes it as
// a JPEG data URL at the given quality (1-100). The decoded image is released
// whether or not the crop succeeds.
//
// Crop does not check bounds; call CheckBounds first.
func Crop(img *DecodedImage, height, quality int) (*CropResult, error) {
	if img == nil || img.img == nil {
		return nil, newError(KindEncodeFailure, nil, "no decoded image to crop")
	}
	defer img.Release()

	width := img.Width
	if width <= 0 || height <= 0 {
		return nil, newError(KindEncodeFailure, nil,
			"crop area %dx%d is empty", width, height)
	}

	// Identity copy of the band [0,0,width,height], relative to the source
	// origin.
	src := img.img
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, newError(KindEncodeFailure, err, "encode %dx%d jpeg err", width, height)
	}
	if buf.Len() == 0 {
		return nil, newError(KindEncodeFailure, nil, "encoder produced no output")
	}

	return &CropResult{
		DataURL:  dataURL(previewMIMEType, buf.Bytes()),
		MIMEType: previewMIMEType,
		Width:    width,
		Height:   height,
		Size:     buf.Len(),
	}, nil
}

func dataURL(mimeType string, b []byte) string {
	prefix := "data:" + mimeType + ";base64,"
	out := make([]byte, len(prefix)+base64.StdEncoding.EncodedLen(len(b)))
	copy(out, prefix)
	base64.StdEncoding.Encode(out[len(prefix):], b)
	return string(out)
}

// DecodeDataURL returns the bytes embedded in a base64 data URL produced by
// Crop.
func DecodeDataURL(s string) (mimeType string, b []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errNotDataURL
	}
	mimeType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, errNotDataURL
	}
	b, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mimeType, b, nil
}
