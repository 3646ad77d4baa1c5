package provider

import (
	"bytes"
	"fmt"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

// ImageBounds decodes the image, honouring EXIF orientation, and returns
// its width and height in pixels. Undecodable input yields
// domain.ErrInvalidImage.
func ImageBounds(image []byte) (int, int, error) {
	if len(image) == 0 {
		return 0, 0, domain.ErrInvalidImage
	}

	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, domain.ErrInvalidImage.WithError(fmt.Errorf("decode image: %w", err))
	}

	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// RelativeToPixels converts a box expressed as ratios of the image size
// into a pixel rectangle clipped to the image. ok is false when nothing
// of the box lies inside the image.
func RelativeToPixels(left, top, width, height float64, imgW, imgH int) (domain.FaceRectangle, bool) {
	w, h := float64(imgW), float64(imgH)

	x0 := math.Max(0, left*w)
	y0 := math.Max(0, top*h)
	x1 := math.Min(w, (left+width)*w)
	y1 := math.Min(h, (top+height)*h)

	if x1 <= x0 || y1 <= y0 {
		return domain.FaceRectangle{}, false
	}

	return domain.FaceRectangle{
		Top:    y0,
		Left:   x0,
		Width:  x1 - x0,
		Height: y1 - y0,
	}, true
}
