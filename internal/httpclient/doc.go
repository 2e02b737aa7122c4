// Package httpclient builds the http.Client used for every outbound request
// made by embedprobe: catalog fetches and embeddability probes.
//
// All clients share the same behavior:
//   - every request carries the configured User-Agent, including redirect hops
//   - redirects are followed up to a fixed limit, after which the request fails
//   - connections can optionally be routed through a SOCKS5 proxy
//   - requests can optionally be rate limited per host
package httpclient
