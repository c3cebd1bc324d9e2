package utils

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	PlaceholderWidth  = 800
	PlaceholderHeight = 600
)

// GradientPNG renders a vertical gradient from top to bottom and encodes it as PNG.
func GradientPNG(top, bottom color.NRGBA) ([]byte, error) {
	img := imaging.New(PlaceholderWidth, PlaceholderHeight, top)

	for y := 0; y < PlaceholderHeight; y++ {
		t := float64(y) / float64(PlaceholderHeight-1)
		c := color.NRGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 255,
		}
		for x := 0; x < PlaceholderWidth; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
