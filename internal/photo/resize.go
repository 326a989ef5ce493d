// Package photo implements the resize-before-store policy for receipt
// photos: anything larger than the target box is scaled down with an
// aspect-filling center crop and re-encoded as JPEG at reduced quality,
// bounding what ends up in the store.
package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// MaxDimension is the side of the square box photos are fitted into.
	MaxDimension = 500

	// JPEGQuality is the re-encode quality for stored photos.
	JPEGQuality = 60
)

// Resize decodes data and returns it as a JPEG no larger than maxDim on
// either side. Oversized images are scaled by the larger of the two scale
// factors and center-cropped to a maxDim square (aspect fill, not
// letterbox). Images already inside the box are re-encoded without scaling.
func Resize(data []byte, maxDim, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return encodeJPEG(img, quality)
	}

	// Aspect fill: scale by the larger factor, center the overflow.
	scale := math.Max(float64(maxDim)/float64(w), float64(maxDim)/float64(h))
	sw := int(math.Round(float64(w) * scale))
	sh := int(math.Round(float64(h) * scale))
	offX := -(sw - maxDim) / 2
	offY := -(sh - maxDim) / 2

	dst := image.NewRGBA(image.Rect(0, 0, maxDim, maxDim))
	draw.CatmullRom.Scale(dst, image.Rect(offX, offY, offX+sw, offY+sh), img, bounds, draw.Src, nil)

	return encodeJPEG(dst, quality)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return buf.Bytes(), nil
}
