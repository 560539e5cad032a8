package cropview_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/sebnyberg/cropview"
)

func ExamplePipeline() {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewGray(image.Rect(0, 0, 640, 900)))

	p := cropview.New()
	res, err := p.Process(context.Background(), cropview.SourceFromBytes("scan.png", "image/png", buf.Bytes()))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.State(), res.Width, res.Height, res.MIMEType)
	// Output: Ready 640 500 image/jpeg
}

func ExamplePipeline_failure() {
	p := cropview.New()
	_, err := p.Process(context.Background(), cropview.SourceFromBytes("notes.txt", "text/plain", []byte("hi")))
	fmt.Println(cropview.KindOf(err), p.State())

	p.Reset()
	fmt.Println(p.State())
	// Output:
	// UnsupportedType Failed
	// Idle
}
