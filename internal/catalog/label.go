package catalog

import (
	"net/url"
	"strings"
)

// Label derives a human-readable channel name from a channel URL: the last
// path segment, percent-decoded, with '+' read as a space. For example
// "https://topembed.pw/channel/ESPN2%5BUSA%5D" becomes "ESPN2[USA]".
// URLs that are not https, or whose last segment is empty, are returned as is.
func Label(rawURL string) string {
	if !strings.HasPrefix(rawURL, "https") {
		return rawURL
	}

	clean := strings.ReplaceAll(rawURL, `\/`, `/`)
	segment := clean[strings.LastIndex(clean, "/")+1:]
	if segment == "" {
		return rawURL
	}

	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}
	return strings.ReplaceAll(segment, "+", " ")
}
