package batch

import (
	"net/url"
	"strings"
)

var imageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"bmp":  {},
	"webp": {},
	"avif": {},
	"tiff": {},
}

// Classify splits sources into syntactically plausible and implausible
// identifiers, preserving relative order within each list. It performs no
// network or filesystem access and never fails; anything unrecognized just
// lands in invalid.
func Classify(sources []string) (valid, invalid []string) {
	for _, source := range sources {
		if PlausibleSource(source) {
			valid = append(valid, source)
		} else {
			invalid = append(invalid, source)
		}
	}
	return valid, invalid
}

// PlausibleSource reports whether source looks like something a provider
// could load: a well-formed http(s) URL, a data:image/ payload, or a path
// with a known image extension.
func PlausibleSource(source string) bool {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		u, err := url.Parse(source)
		return err == nil && u.Host != ""
	}

	if strings.HasPrefix(source, "data:image/") {
		return true
	}

	dot := strings.LastIndex(source, ".")
	if dot < 0 {
		return false
	}
	ext := strings.ToLower(source[dot+1:])
	_, ok := imageExtensions[ext]
	return ok
}
