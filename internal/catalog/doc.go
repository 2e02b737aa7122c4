// Package catalog loads the list of candidate stream URLs.
//
// Two sources are supported:
//
//   - FetchRemote reads the remote event catalog, flattens
//     events -> day -> entry -> channels in document order, removes
//     duplicates and stops at the limit. Any failure is returned to the
//     caller, which treats it as fatal.
//   - LoadSnapshot reads a local channel list, either a bare JSON array or
//     an object with a "channels" key. It truncates to the limit but does
//     NOT remove duplicates, and degrades to an empty list on any failure.
//
// The two sources deliberately differ in de-duplication and error handling;
// callers that need unique URLs from a snapshot must de-duplicate themselves.
package catalog
