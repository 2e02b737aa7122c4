// Package classify decides which probed URLs are safe to embed.
//
// A URL is accepted when its report has status 200, no X-Frame-Options,
// no Content-Security-Policy frame-ancestors directive and an https
// original URL. The referrer meta flag and the error field are
// informational and never change the decision.
package classify
