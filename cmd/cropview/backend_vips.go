//go:build vips

package main

import (
	"go.uber.org/zap"

	"github.com/sebnyberg/cropview"
	"github.com/sebnyberg/cropview/internal/config"
	"github.com/sebnyberg/cropview/vipsx"
)

func newDecoder(backend string, logger *zap.Logger) (cropview.Decoder, error) {
	switch backend {
	case config.BackendVips:
		return vipsx.NewDecoder(logger), nil
	case config.BackendVipsImage:
		return vipsx.NewFileDecoder(logger, ""), nil
	}
	return cropview.NativeDecoder{}, nil
}
