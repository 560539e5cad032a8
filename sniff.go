package cropview

// Signature is the image format as identified from leading bytes.
type Signature int

const (
	SignatureUnknown Signature = iota
	SignaturePNG
	SignatureJPEG
)

const (
	pngMagic  = "\x89PNG"
	jpegMagic = "\xFF\xD8\xFF"
)

func (s Signature) String() string {
	switch s {
	case SignaturePNG:
		return "png"
	case SignatureJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// ContentType returns the MIME type of the signature, or "" when unknown.
func (s Signature) ContentType() string {
	switch s {
	case SignaturePNG:
		return "image/png"
	case SignatureJPEG:
		return "image/jpeg"
	default:
		return ""
	}
}

// Sniff classifies buf by its first four bytes. The result only explains
// decode failures; it never blocks a decode attempt.
func Sniff(buf ByteBuffer) Signature {
	head := buf
	if len(head) > 4 {
		head = head[:4]
	}
	switch {
	case len(head) == 4 && string(head) == pngMagic:
		return SignaturePNG
	case len(head) >= 3 && string(head[:3]) == jpegMagic:
		return SignatureJPEG
	}
	return SignatureUnknown
}
