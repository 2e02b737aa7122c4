// Package main provides the entry point for the embedprobe CLI.
//
// embedprobe decides which candidate video-stream URLs can be embedded in a
// third-party iframe. It fetches a channel catalog, probes every URL for
// framing restrictions and writes the list of URLs that are safe to embed.
//
// Usage:
//
//	embedprobe run
//	embedprobe catalog --limit 50
//	embedprobe probe --input out/channels.json
//	embedprobe prune
//
// See --help for all available options.
package main

func main() {
	Execute()
}
