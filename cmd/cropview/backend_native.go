//go:build !vips

package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sebnyberg/cropview"
	"github.com/sebnyberg/cropview/internal/config"
)

func newDecoder(backend string, _ *zap.Logger) (cropview.Decoder, error) {
	if backend == config.BackendVips || backend == config.BackendVipsImage {
		return nil, fmt.Errorf("decode.backend = %q needs a cropview built with -tags vips", backend)
	}
	return cropview.NativeDecoder{}, nil
}
