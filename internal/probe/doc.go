// Package probe decides whether a single URL can be framed by a third-party
// page by inspecting its HTTP response headers.
//
// Each URL goes through a two-stage probe:
//
//	Initial -> LightProbeSent -> Accepted(light result) -> Terminal
//	                          \-> FallbackSent           -> Terminal
//
// The lightweight HEAD request is preferred because it transfers no body.
// Many stream hosts reject HEAD or fail it outright, so a rejection
// (status >= 400, including 405) or a transport failure triggers exactly one
// streamed GET, whose outcome replaces the HEAD outcome entirely. Only the GET
// path samples the body, looking for a referrer meta tag.
//
// Every transition is an ordinary function over tagged values (Attempt, Stage),
// so each step can be tested without a network.
package probe
