package media

import (
	"net/url"
	"strings"
)

// ParseRef decodes a persisted reference. Only an absolute http(s) URL with a
// host is remote; anything else is a local file name.
func ParseRef(stored string) Ref {
	u, err := url.Parse(stored)
	if err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != "" {
		return Ref{Kind: RefRemote, Value: stored}
	}
	return Ref{Kind: RefLocal, Value: stored}
}

// PublicURL resolves the address a client fetches the medium from.
func PublicURL(ref Ref, localBase string) string {
	if ref.Kind == RefRemote {
		return ref.Value
	}
	return strings.TrimRight(localBase, "/") + "/" + url.PathEscape(ref.Value)
}
