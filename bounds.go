package cropview

// CheckBounds validates decoded dimensions before the crop surface is
// allocated, and returns the number of rows the crop will keep.
func CheckBounds(width, height int, lim Limits) (int, error) {
	if width > lim.MaxWidth {
		return 0, newError(KindDimensionOverflow, nil,
			"image width %d exceeds the maximum of %d", width, lim.MaxWidth)
	}
	cropped := croppedHeight(height, lim.CropHeight)
	if px := int64(width) * int64(cropped); px > lim.MaxPixels {
		return 0, newError(KindMemoryOverflow, nil,
			"crop of %dx%d is %d pixels, the maximum is %d",
			width, cropped, px, lim.MaxPixels)
	}
	return cropped, nil
}

func croppedHeight(height, band int) int {
	if height < band {
		return height
	}
	return band
}

// CheckFrame validates the dimensions of a frame before it is decoded: the
// width limit, and the pixel count of the whole frame against
// MaxFramePixels.
func CheckFrame(width, height int, lim Limits) error {
	if width > lim.MaxWidth {
		return newError(KindDimensionOverflow, nil,
			"image width %d exceeds the maximum of %d", width, lim.MaxWidth)
	}
	if lim.MaxFramePixels <= 0 {
		return nil
	}
	if px := int64(width) * int64(height); px > lim.MaxFramePixels {
		return newError(KindMemoryOverflow, nil,
			"image of %dx%d is %d pixels, the maximum is %d",
			width, height, px, lim.MaxFramePixels)
	}
	return nil
}
