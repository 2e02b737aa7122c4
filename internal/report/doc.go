// Package report reads and writes the files exchanged between stages and
// renders human-readable summaries of a probe run.
//
// Boundary files are indented JSON:
//   - channel lists (catalog and accepted list): {"channels": [...]}
//   - probe reports: {"results": [...]}
//
// Summaries implement the Writer interface:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: Markdown with a mermaid pie chart, for sharing
//   - JSONWriter: the probe report collection, for piping to other tools
package report
