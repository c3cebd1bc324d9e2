package media

import (
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// objectNaming is shared by the object-store backends: keys are
// "<folder>/<unix-millis>-<slug><ext>" and public URLs hang off a base URL.
type objectNaming struct {
	folder     string
	publicBase string
	now        func() time.Time
}

func (n objectNaming) key(original string) string {
	name := remotePublicID(n.now(), original) + strings.ToLower(filepath.Ext(original))
	if n.folder == "" {
		return name
	}
	return path.Join(n.folder, name)
}

func (n objectNaming) publicURL(key string) string {
	return strings.TrimRight(n.publicBase, "/") + "/" + (&url.URL{Path: key}).EscapedPath()
}

// the stdlib table has no video entries unless the host ships mime.types
var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

// contentType guesses the MIME type from the extension, falling back on the
// photo/video hint.
func contentType(upload Upload) string {
	ext := strings.ToLower(filepath.Ext(upload.Name))
	if ct, ok := videoContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if upload.Type == TypeVideo {
		return "video/octet-stream"
	}
	return "application/octet-stream"
}
