package classify

import (
	"net/http"
	"strings"

	"github.com/nao1215/embedprobe/internal/model"
)

// Reason names a condition that kept a URL off the accepted list.
type Reason string

const (
	// ReasonStatus means the final status was not 200 (or no response was received).
	ReasonStatus Reason = "status"
	// ReasonXFrameOptions means an X-Frame-Options header was present.
	ReasonXFrameOptions Reason = "x-frame-options"
	// ReasonFrameAncestors means a CSP frame-ancestors directive was present.
	ReasonFrameAncestors Reason = "frame-ancestors"
	// ReasonNotHTTPS means the original URL was not https.
	ReasonNotHTTPS Reason = "not-https"
)

// AllReasons lists every Reason in a stable order.
var AllReasons = []Reason{ReasonStatus, ReasonXFrameOptions, ReasonFrameAncestors, ReasonNotHTTPS}

// Description returns a short human-readable explanation.
func (r Reason) Description() string {
	switch r {
	case ReasonStatus:
		return "status is not 200"
	case ReasonXFrameOptions:
		return "X-Frame-Options present"
	case ReasonFrameAncestors:
		return "CSP frame-ancestors present"
	case ReasonNotHTTPS:
		return "not served over https"
	default:
		return string(r)
	}
}

// Reasons returns every failed acceptance condition of r, in AllReasons
// order. An empty result means the report is accepted. Empty header values
// are treated as absent.
func Reasons(r model.ProbeReport) []Reason {
	var reasons []Reason
	if r.StatusCode() != http.StatusOK {
		reasons = append(reasons, ReasonStatus)
	}
	if present(r.XFrameOptions) {
		reasons = append(reasons, ReasonXFrameOptions)
	}
	if present(r.CSPFrameAncestors) {
		reasons = append(reasons, ReasonFrameAncestors)
	}
	if !r.IsHTTPS {
		reasons = append(reasons, ReasonNotHTTPS)
	}
	return reasons
}

// Accept reports whether r is safe to embed.
func Accept(r model.ProbeReport) bool {
	return len(Reasons(r)) == 0
}

// Filter returns the original URLs of the accepted reports, in report order.
// The result is never nil.
func Filter(reports []model.ProbeReport) []string {
	accepted := make([]string, 0, len(reports))
	for _, r := range reports {
		if Accept(r) {
			accepted = append(accepted, r.URL)
		}
	}
	return accepted
}

// Summary counts accepted reports and rejections per reason.
type Summary struct {
	// Total is the number of reports classified.
	Total int
	// Accepted is the number of accepted reports.
	Accepted int
	// Failed is the number of reports whose probe failed entirely.
	Failed int
	// ByReason counts rejected reports per failed condition. A report with
	// several failed conditions is counted under each.
	ByReason map[Reason]int
}

// Rejected returns the number of rejected reports.
func (s Summary) Rejected() int {
	return s.Total - s.Accepted
}

// Summarize classifies every report and tallies the outcome.
func Summarize(reports []model.ProbeReport) Summary {
	s := Summary{
		Total:    len(reports),
		ByReason: make(map[Reason]int, len(AllReasons)),
	}
	for _, r := range reports {
		if r.Failed() {
			s.Failed++
		}
		reasons := Reasons(r)
		if len(reasons) == 0 {
			s.Accepted++
			continue
		}
		for _, reason := range reasons {
			s.ByReason[reason]++
		}
	}
	return s
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
