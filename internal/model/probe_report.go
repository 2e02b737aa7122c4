package model

import (
	"net/url"
	"strings"
)

// ProbeReport is the result of probing a single candidate URL for framing
// restrictions. Exactly one report is produced per candidate.
//
// Optional fields are pointers so that "absent" serializes as JSON null,
// which keeps the report file compatible with consumers of the original
// embed_report.json format.
type ProbeReport struct {
	// URL is the original candidate URL. It is never modified.
	URL string `json:"url"`

	// FinalURL is the URL after redirects of the last completed attempt.
	FinalURL *string `json:"final_url"`

	// Status is the HTTP status code of the last completed attempt.
	Status *int `json:"status"`

	// IsHTTPS reports whether the original URL uses the https scheme.
	// A redirect to https does not change this value.
	IsHTTPS bool `json:"is_https"`

	// XFrameOptions is the verbatim X-Frame-Options header value.
	XFrameOptions *string `json:"x_frame_options"`

	// CSPFrameAncestors is the full Content-Security-Policy header value,
	// recorded only when it carries a frame-ancestors directive.
	CSPFrameAncestors *string `json:"csp_frame_ancestors"`

	// ReferrerMeta reports whether a <meta name="referrer"> tag was seen in the
	// sampled body prefix. Nil when no body was sampled or sampling failed.
	// False means a prefix was read and had no tag; older report files only
	// carry true or null, so readers must not treat false and null alike.
	ReferrerMeta *bool `json:"referrer_meta"`

	// Error describes why both probe attempts failed.
	Error *string `json:"error"`
}

// NewProbeReport creates an empty report for rawURL with IsHTTPS derived
// from the URL scheme.
func NewProbeReport(rawURL string) ProbeReport {
	return ProbeReport{
		URL:     rawURL,
		IsHTTPS: IsHTTPSURL(rawURL),
	}
}

// IsHTTPSURL reports whether rawURL has the https scheme (case-insensitive).
func IsHTTPSURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		// url.Parse rejects some URLs that still carry a readable scheme,
		// e.g. ones with invalid percent escapes in the path.
		scheme, _, found := strings.Cut(strings.TrimSpace(rawURL), ":")
		return found && strings.EqualFold(scheme, "https")
	}
	return strings.EqualFold(u.Scheme, "https")
}

// StatusCode returns the HTTP status, or 0 when no attempt completed.
func (r *ProbeReport) StatusCode() int {
	if r.Status == nil {
		return 0
	}
	return *r.Status
}

// HasStatus reports whether an HTTP attempt completed.
func (r *ProbeReport) HasStatus() bool {
	return r.Status != nil
}

// Failed reports whether both probe attempts failed.
func (r *ProbeReport) Failed() bool {
	return r.Error != nil
}

// ErrorMessage returns the failure description, or "" if none.
func (r *ProbeReport) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// FinalURLString returns the final URL, or "" when no attempt completed.
func (r *ProbeReport) FinalURLString() string {
	if r.FinalURL == nil {
		return ""
	}
	return *r.FinalURL
}

// HasFrameRestriction reports whether either framing header was recorded.
func (r *ProbeReport) HasFrameRestriction() bool {
	return r.XFrameOptions != nil || r.CSPFrameAncestors != nil
}

// Ptr returns a pointer to v. It keeps report construction terse.
func Ptr[T any](v T) *T {
	return &v
}
