package media

import (
	"io"
	"path/filepath"
	"strings"
)

// Type is the kind of a stored medium.
type Type string

const (
	TypePhoto Type = "photo"
	TypeVideo Type = "video"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".mkv":  true,
}

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

// IsAllowed reports whether the filename carries an accepted photo or video extension
func IsAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return photoExtensions[ext] || videoExtensions[ext]
}

// Classify derives the media type from the extension alone.
func Classify(filename string) Type {
	if videoExtensions[strings.ToLower(filepath.Ext(filename))] {
		return TypeVideo
	}
	return TypePhoto
}

// RefKind tells where the bytes behind a Ref live.
type RefKind string

const (
	RefLocal  RefKind = "local"
	RefRemote RefKind = "remote"
)

// Ref is a stored-object reference: a generated file name for local storage,
// or an absolute URL for remote storage.
type Ref struct {
	Kind  RefKind
	Value string
}

func (r Ref) String() string {
	return r.Value
}

// Item is one medium of an entry. Position 0 of an entry's list is the
// primary and always has SortOrder 0.
type Item struct {
	Ref       Ref
	Type      Type
	SortOrder int
}

// Upload is a file handed to a Store.
type Upload struct {
	Name string // original client file name
	Size int64
	Type Type
	Body io.Reader
}
