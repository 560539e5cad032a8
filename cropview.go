// Package cropview turns an untrusted image file into a JPEG preview of its
// top band.
//
// A Pipeline runs each file through a fixed sequence of stages: declared
// size and type checks, a full read, signature sniffing, decoding under a
// timeout, dimension and memory bounds checks, and finally a copy of the top
// rows re-encoded as a data:image/jpeg;base64 URL. Every stage can fail with
// an *Error whose Kind says which check tripped. The stages are also exported
// on their own for callers that want to run them individually.
package cropview
