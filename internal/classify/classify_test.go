package classify

import (
	"reflect"
	"testing"

	"github.com/nao1215/embedprobe/internal/model"
)

// embeddable returns a report that passes every condition.
func embeddable(url string) model.ProbeReport {
	r := model.NewProbeReport(url)
	r.Status = model.Ptr(200)
	r.FinalURL = model.Ptr(url)
	return r
}

func TestAccept(t *testing.T) {
	t.Parallel()

	base := embeddable("https://a.example/live")
	if !Accept(base) {
		t.Fatalf("expected base report to be accepted, reasons %v", Reasons(base))
	}

	tests := []struct {
		name   string
		mutate func(*model.ProbeReport)
		reason Reason
	}{
		{"status 404", func(r *model.ProbeReport) { r.Status = model.Ptr(404) }, ReasonStatus},
		{"status 204", func(r *model.ProbeReport) { r.Status = model.Ptr(204) }, ReasonStatus},
		{"no status", func(r *model.ProbeReport) {
			r.Status = nil
			r.Error = model.Ptr("connection refused")
		}, ReasonStatus},
		{"x-frame-options", func(r *model.ProbeReport) { r.XFrameOptions = model.Ptr("DENY") }, ReasonXFrameOptions},
		{"frame-ancestors", func(r *model.ProbeReport) {
			r.CSPFrameAncestors = model.Ptr("frame-ancestors 'self'")
		}, ReasonFrameAncestors},
		{"http", func(r *model.ProbeReport) { r.IsHTTPS = false }, ReasonNotHTTPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := embeddable("https://a.example/live")
			tt.mutate(&r)

			if Accept(r) {
				t.Error("expected rejection")
			}
			if got := Reasons(r); !reflect.DeepEqual(got, []Reason{tt.reason}) {
				t.Errorf("expected reasons [%s], got %v", tt.reason, got)
			}
		})
	}
}

func TestAcceptIgnoresInformationalFields(t *testing.T) {
	t.Parallel()

	r := embeddable("https://a.example/live")
	r.ReferrerMeta = model.Ptr(true)
	if !Accept(r) {
		t.Error("referrer_meta must not affect the decision")
	}

	r.ReferrerMeta = model.Ptr(false)
	if !Accept(r) {
		t.Error("referrer_meta must not affect the decision")
	}
}

func TestAcceptTreatsEmptyHeaderAsAbsent(t *testing.T) {
	t.Parallel()

	r := embeddable("https://a.example/live")
	r.XFrameOptions = model.Ptr("")
	r.CSPFrameAncestors = model.Ptr("  ")
	if !Accept(r) {
		t.Errorf("expected empty header values to count as absent, reasons %v", Reasons(r))
	}
}

func TestReasonsCollectsAll(t *testing.T) {
	t.Parallel()

	r := model.NewProbeReport("http://a.example/live")
	r.Status = model.Ptr(403)
	r.XFrameOptions = model.Ptr("SAMEORIGIN")
	r.CSPFrameAncestors = model.Ptr("frame-ancestors 'none'")

	if got := Reasons(r); !reflect.DeepEqual(got, AllReasons) {
		t.Errorf("expected all reasons, got %v", got)
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("keeps order of accepted reports", func(t *testing.T) {
		t.Parallel()

		rejected := embeddable("https://b.example/live")
		rejected.XFrameOptions = model.Ptr("DENY")

		reports := []model.ProbeReport{
			embeddable("https://c.example/live"),
			rejected,
			embeddable("https://a.example/live"),
		}

		want := []string{"https://c.example/live", "https://a.example/live"}
		if got := Filter(reports); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("returns original URL not final URL", func(t *testing.T) {
		t.Parallel()

		r := embeddable("https://a.example/start")
		r.FinalURL = model.Ptr("https://cdn.example/end")

		if got := Filter([]model.ProbeReport{r}); len(got) != 1 || got[0] != "https://a.example/start" {
			t.Errorf("unexpected result %v", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		got := Filter(nil)
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", got)
		}
	})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	failed := model.NewProbeReport("https://down.example/")
	failed.Error = model.Ptr("no such host")

	framed := embeddable("http://framed.example/")
	framed.XFrameOptions = model.Ptr("DENY")

	s := Summarize([]model.ProbeReport{embeddable("https://ok.example/"), failed, framed})

	if s.Total != 3 || s.Accepted != 1 || s.Rejected() != 2 || s.Failed != 1 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.ByReason[ReasonStatus] != 1 || s.ByReason[ReasonXFrameOptions] != 1 || s.ByReason[ReasonNotHTTPS] != 1 {
		t.Errorf("unexpected reason counts %v", s.ByReason)
	}
	if s.ByReason[ReasonFrameAncestors] != 0 {
		t.Errorf("unexpected frame-ancestors count %d", s.ByReason[ReasonFrameAncestors])
	}
}

func TestReasonDescription(t *testing.T) {
	t.Parallel()

	for _, r := range AllReasons {
		if r.Description() == "" || r.Description() == string(r) {
			t.Errorf("expected a description for %q", r)
		}
	}
	if Reason("other").Description() != "other" {
		t.Error("expected unknown reason to describe itself")
	}
}
