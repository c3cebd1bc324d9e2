package utils

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientPNG(t *testing.T) {
	data, err := GradientPNG(color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, PlaceholderWidth, img.Bounds().Dx())
	assert.Equal(t, PlaceholderHeight, img.Bounds().Dy())

	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)

	r, _, b, _ = img.At(0, PlaceholderHeight-1).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)
}

func TestReadPhotoMetadata_NoExif(t *testing.T) {
	data, err := GradientPNG(color.NRGBA{A: 255}, color.NRGBA{A: 255})
	require.NoError(t, err)

	_, err = ReadPhotoMetadata(bytes.NewReader(data))
	assert.Error(t, err)

	_, err = ReadPhotoMetadata(strings.NewReader(""))
	assert.Error(t, err)
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, validCoordinate(26.2124, 127.6809))
	assert.True(t, validCoordinate(-33.86, 151.2))
	assert.False(t, validCoordinate(0, 0))
	assert.False(t, validCoordinate(91, 10))
	assert.False(t, validCoordinate(10, -181))
}
