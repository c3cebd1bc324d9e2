package utils

import (
	"fmt"
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// PhotoMetadata is the subset of EXIF used to prefill a diary entry.
type PhotoMetadata struct {
	Latitude  *float64
	Longitude *float64
	TakenAt   *time.Time
}

// ReadPhotoMetadata decodes EXIF from r. A photo without EXIF is an error;
// missing individual tags just leave fields nil.
func ReadPhotoMetadata(r io.Reader) (*PhotoMetadata, error) {
	exifData, err := exif.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("metadata: no exif data: %w", err)
	}

	meta := &PhotoMetadata{}

	if lat, long, err := exifData.LatLong(); err == nil && validCoordinate(lat, long) {
		meta.Latitude = &lat
		meta.Longitude = &long
	}

	// DateTime prefers DateTimeOriginal and falls back to DateTime
	if dt, err := exifData.DateTime(); err == nil && !dt.IsZero() {
		meta.TakenAt = &dt
	}

	return meta, nil
}

func validCoordinate(lat, long float64) bool {
	if lat == 0 && long == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && long >= -180 && long <= 180
}
