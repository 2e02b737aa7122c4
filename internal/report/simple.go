package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/embedprobe/internal/classify"
)

// ruleWidth is the width of section separators.
const ruleWidth = 70

// SimpleWriter renders a plain-text summary for the terminal.
type SimpleWriter struct {
	output io.Writer

	// verbose lists every rejected URL with its reasons.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists rejected URLs as well as accepted ones.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *SimpleWriter) Write(result *Result) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeReasons(&sb, result)
	w.writeAccepted(&sb, result)
	if w.verbose {
		w.writeRejected(&sb, result)
	}

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *Result) {
	s := result.Summary

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                      EMBEDDABILITY SUMMARY\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Probed:    %d\n", s.Total)
	fmt.Fprintf(sb, "Accepted:  %d\n", s.Accepted)
	fmt.Fprintf(sb, "Rejected:  %d\n", s.Rejected())
	fmt.Fprintf(sb, "Failed:    %d (no response to either attempt)\n", s.Failed)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeReasons(sb *strings.Builder, result *Result) {
	if result.Summary.Rejected() == 0 {
		return
	}

	section(sb, "REJECTION REASONS")
	for _, reason := range classify.AllReasons {
		fmt.Fprintf(sb, "  %-30s %d\n", reason.Description()+":", result.Summary.ByReason[reason])
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeAccepted(sb *strings.Builder, result *Result) {
	section(sb, "ACCEPTED")
	if len(result.Accepted) == 0 {
		sb.WriteString("  No URL can be embedded\n\n")
		return
	}
	for _, u := range result.Accepted {
		fmt.Fprintf(sb, "  [+] %s\n", u)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRejected(sb *strings.Builder, result *Result) {
	rejected := result.Rejected()
	if len(rejected) == 0 {
		return
	}

	section(sb, "REJECTED")
	for _, rej := range rejected {
		names := make([]string, len(rej.Reasons))
		for i, r := range rej.Reasons {
			names[i] = string(r)
		}
		fmt.Fprintf(sb, "  [-] %s (%s)\n", rej.Report.URL, strings.Join(names, ", "))
		if msg := rej.Report.ErrorMessage(); msg != "" {
			fmt.Fprintf(sb, "      error: %s\n", msg)
		}
	}
	sb.WriteString("\n")
}
