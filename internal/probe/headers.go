package probe

import (
	"net/http"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Header names inspected by the prober.
const (
	headerXFrameOptions = "X-Frame-Options"
	headerCSP           = "Content-Security-Policy"
	directiveFrameAnc   = "frame-ancestors"
)

// HeaderValue is an optional header value. The zero value is absent.
type HeaderValue struct {
	value   string
	present bool
}

// Present wraps v as a present header value.
func Present(v string) HeaderValue {
	return HeaderValue{value: v, present: true}
}

// Get returns the value and whether it is present.
func (h HeaderValue) Get() (string, bool) {
	return h.value, h.present
}

// IsPresent reports whether the value is present.
func (h HeaderValue) IsPresent() bool {
	return h.present
}

// FrameHeaders holds the framing restrictions found in one response.
type FrameHeaders struct {
	// XFrameOptions is the verbatim X-Frame-Options value.
	XFrameOptions HeaderValue
	// CSPFrameAncestors is the full Content-Security-Policy value, present
	// only when the policy has a frame-ancestors directive.
	CSPFrameAncestors HeaderValue
}

// ExtractFrameHeaders reads the framing headers from h regardless of the
// response status. Header names are matched case-insensitively, repeated
// headers are joined with ", " and empty values count as absent.
func ExtractFrameHeaders(h http.Header) FrameHeaders {
	var fh FrameHeaders

	if xfo := lookupHeader(h, headerXFrameOptions); xfo != "" {
		fh.XFrameOptions = Present(xfo)
	}
	if csp := lookupHeader(h, headerCSP); csp != "" && HasFrameAncestors(csp) {
		fh.CSPFrameAncestors = Present(csp)
	}
	return fh
}

// lookupHeader returns all values of the header called name, whatever the
// casing of the stored key. http.Header normally holds canonical keys, but
// maps built by hand (or by non-canonicalizing transports) may not.
func lookupHeader(h http.Header, name string) string {
	keys := make([]string, 0, 1)
	for k := range h {
		if strings.EqualFold(k, name) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var values []string
	for _, k := range keys {
		for _, v := range h[k] {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return strings.Join(values, ", ")
}

// HasFrameAncestors reports whether a Content-Security-Policy value contains
// a frame-ancestors directive. Directive names are case-insensitive; several
// policies may be joined with commas.
func HasFrameAncestors(csp string) bool {
	fold := cases.Fold()
	for _, policy := range strings.Split(csp, ",") {
		for _, directive := range strings.Split(policy, ";") {
			fields := strings.Fields(directive)
			if len(fields) == 0 {
				continue
			}
			if fold.String(fields[0]) == directiveFrameAnc {
				return true
			}
		}
	}
	return false
}
