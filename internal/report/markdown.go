package report

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/embedprobe/internal/catalog"
	"github.com/nao1215/embedprobe/internal/classify"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter renders a Markdown summary with a mermaid pie chart.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(result *Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeReasons(md, result)
	w.writeAccepted(md, result)
	w.writeRejected(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *Result) {
	s := result.Summary

	md.H1("Embeddability Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", result.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Probed", strconv.Itoa(s.Total)},
			{"Accepted", strconv.Itoa(s.Accepted)},
			{"Rejected", strconv.Itoa(s.Rejected())},
			{"Failed probes", strconv.Itoa(s.Failed)},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, result)
	}

	switch {
	case s.Total == 0:
		md.Note("No URL was probed.")
	case s.Accepted == 0:
		md.Warningf("None of the %d probed URLs can be embedded.", s.Total)
	case s.Failed > 0:
		md.Importantf("%d URL(s) did not respond to either probe attempt.", s.Failed)
	default:
		md.Tip("Every probed URL responded.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *Result) {
	s := result.Summary
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Probe Outcome"),
		piechart.WithShowData(true),
	)

	if s.Accepted > 0 {
		chart.LabelAndIntValue("Accepted", uint64(s.Accepted))
	}
	if n := s.Rejected() - s.Failed; n > 0 {
		chart.LabelAndIntValue("Rejected", uint64(n))
	}
	if s.Failed > 0 {
		chart.LabelAndIntValue("No response", uint64(s.Failed))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeReasons(md *markdown.Markdown, result *Result) {
	if result.Summary.Rejected() == 0 {
		return
	}

	md.H2("Rejection Reasons")
	md.PlainText("")

	rows := make([][]string, 0, len(classify.AllReasons))
	for _, reason := range classify.AllReasons {
		rows = append(rows, []string{
			"`" + string(reason) + "`",
			reason.Description(),
			strconv.Itoa(result.Summary.ByReason[reason]),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Reason", "Meaning", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAccepted(md *markdown.Markdown, result *Result) {
	md.H2("Accepted Channels")
	md.PlainText("")

	if len(result.Accepted) == 0 {
		md.PlainText("No URL can be embedded.")
		md.PlainText("")
		return
	}

	items := make([]string, len(result.Accepted))
	for i, u := range result.Accepted {
		items[i] = catalog.Label(u) + " (`" + u + "`)"
	}
	md.BulletList(items...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeRejected(md *markdown.Markdown, result *Result) {
	rejected := result.Rejected()
	if len(rejected) == 0 {
		return
	}

	md.H2("Rejected Channels")
	md.PlainText("")

	rows := make([][]string, len(rejected))
	for i, rej := range rejected {
		names := make([]string, len(rej.Reasons))
		for j, r := range rej.Reasons {
			names[j] = string(r)
		}

		status := "-"
		if rej.Report.HasStatus() {
			status = strconv.Itoa(rej.Report.StatusCode())
		}
		errMsg := rej.Report.ErrorMessage()
		if errMsg == "" {
			errMsg = "-"
		}

		rows[i] = []string{
			tableCell(rej.Report.URL, 60),
			status,
			strings.Join(names, ", "),
			tableCell(errMsg, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Reasons", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by embedprobe*")
}

// truncateString shortens s to at most maxLen bytes, marking the cut with
// "...". The cut never splits a UTF-8 sequence.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen <= 3 {
		return s[:runeBoundary(s, maxLen)]
	}
	return s[:runeBoundary(s, maxLen-3)] + "..."
}

// runeBoundary returns the largest index <= n that starts a rune in s.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

// tableCell truncates s and escapes it for a Markdown table cell.
func tableCell(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(truncateString(s, maxLen), "|", `\|`)
}
