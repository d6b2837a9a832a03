package storage

import (
	"net/url"
	"strings"
)

// IsDataURI reports whether an image reference embeds its payload inline.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// ExtractObjectPath reduces an image reference to the bucket-relative object
// path the store APIs expect. Accepts public object URLs
// (…/<bucket>/folder/file.png), bucket-prefixed paths and bare paths.
// Returns an empty string for data URIs and unparseable references.
func ExtractObjectPath(ref, bucket string) string {
	if ref == "" || IsDataURI(ref) {
		return ""
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return ""
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, segment := range segments {
			if segment == bucket && i+1 < len(segments) {
				return strings.Join(segments[i+1:], "/")
			}
		}
		// No bucket segment; treat everything past the host as the path.
		if len(segments) > 1 {
			return strings.Join(segments[1:], "/")
		}
		return ""
	}

	return strings.TrimPrefix(strings.TrimPrefix(ref, bucket+"/"), "/")
}
