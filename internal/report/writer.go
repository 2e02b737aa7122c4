package report

import (
	"io"
	"time"

	"github.com/nao1215/embedprobe/internal/classify"
	"github.com/nao1215/embedprobe/internal/model"
)

// Result is a classified probe run, the input of every summary Writer.
type Result struct {
	// Reports holds one report per probed URL, in input order.
	Reports []model.ProbeReport
	// Accepted is the accepted list derived from Reports.
	Accepted []string
	// Summary tallies acceptance and rejection reasons.
	Summary classify.Summary
	// GeneratedAt is when the result was built.
	GeneratedAt time.Time
}

// NewResult classifies reports.
func NewResult(reports []model.ProbeReport) *Result {
	return &Result{
		Reports:     reports,
		Accepted:    classify.Filter(reports),
		Summary:     classify.Summarize(reports),
		GeneratedAt: time.Now(),
	}
}

// Rejected returns the reports that were not accepted, with their reasons.
func (r *Result) Rejected() []Rejection {
	var out []Rejection
	for _, pr := range r.Reports {
		if reasons := classify.Reasons(pr); len(reasons) > 0 {
			out = append(out, Rejection{Report: pr, Reasons: reasons})
		}
	}
	return out
}

// Rejection pairs a rejected report with the conditions it failed.
type Rejection struct {
	Report  model.ProbeReport
	Reasons []classify.Reason
}

// Writer renders a Result.
type Writer interface {
	// Write renders result and returns the number of bytes written.
	Write(result *Result) (int, error)
}

// MultiWriter writes to several Writers in turn, stopping at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write implements Writer.
func (m *MultiWriter) Write(result *Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// JSONWriter writes the probe report collection as indented JSON, the same
// document WriteReports puts on disk.
type JSONWriter struct {
	output io.Writer
}

// NewJSONWriter creates a JSONWriter.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{output: output}
}

// Write implements Writer.
func (w *JSONWriter) Write(result *Result) (int, error) {
	cw := &countingWriter{w: w.output}
	err := encodeJSON(cw, model.NewReportFile(result.Reports))
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
