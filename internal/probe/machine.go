package probe

import (
	"net/http"

	"github.com/nao1215/embedprobe/internal/model"
)

// Stage is a state of the per-URL probe state machine.
type Stage int

const (
	// StageInitial is the state before any request is sent.
	StageInitial Stage = iota
	// StageLightProbeSent means the HEAD request has completed or failed.
	StageLightProbeSent
	// StageAccepted means the HEAD result is final; no fallback is sent.
	StageAccepted
	// StageFallbackSent means the GET request has completed or failed.
	StageFallbackSent
	// StageTerminal means the report has been built.
	StageTerminal
)

// String returns the stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageLightProbeSent:
		return "light_probe_sent"
	case StageAccepted:
		return "accepted"
	case StageFallbackSent:
		return "fallback_sent"
	case StageTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// AttemptKind tags the outcome of a single HTTP attempt.
type AttemptKind int

const (
	// AttemptResponded means a response was received (any status).
	AttemptResponded AttemptKind = iota + 1
	// AttemptFailed means no response was received: DNS, TLS, connect,
	// timeout, too many redirects or an unusable URL.
	AttemptFailed
)

// Attempt is the tagged result of one HEAD or GET request.
type Attempt struct {
	// Method is the HTTP method used.
	Method string
	// Kind tells which of the remaining fields are meaningful.
	Kind AttemptKind
	// Status is the HTTP status code (Responded only).
	Status int
	// FinalURL is the URL after redirects (Responded only).
	FinalURL string
	// Frame holds the framing headers of the response (Responded only).
	Frame FrameHeaders
	// Referrer is the body sampling outcome. Always SampleSkipped for HEAD.
	Referrer Sample
	// Err is the transport failure (Failed only).
	Err error
}

// Responded builds a successful attempt.
func Responded(method string, status int, finalURL string, frame FrameHeaders) Attempt {
	return Attempt{
		Method:   method,
		Kind:     AttemptResponded,
		Status:   status,
		FinalURL: finalURL,
		Frame:    frame,
	}
}

// Failed builds a failed attempt.
func Failed(method string, err error) Attempt {
	return Attempt{
		Method: method,
		Kind:   AttemptFailed,
		Err:    err,
	}
}

// NeedsFallback reports whether a status returned by the lightweight probe
// means the server rejected the request rather than answered it.
func NeedsFallback(status int) bool {
	return status >= http.StatusBadRequest || status == http.StatusMethodNotAllowed
}

// AfterLightProbe is the transition out of StageLightProbeSent.
// A response that is not a rejection is final; everything else falls back.
func AfterLightProbe(light Attempt) Stage {
	if light.Kind == AttemptResponded && !NeedsFallback(light.Status) {
		return StageAccepted
	}
	return StageFallbackSent
}

// Finalize is the transition into StageTerminal. It builds the report for
// rawURL from the single authoritative attempt: the HEAD attempt when it was
// accepted, otherwise the GET attempt. Nothing from a superseded attempt is
// carried over.
func Finalize(rawURL string, final Attempt) model.ProbeReport {
	report := model.NewProbeReport(rawURL)

	if final.Kind != AttemptResponded {
		msg := "unknown probe failure"
		if final.Err != nil {
			msg = final.Err.Error()
		}
		report.Error = model.Ptr(msg)
		return report
	}

	report.Status = model.Ptr(final.Status)
	report.FinalURL = model.Ptr(final.FinalURL)
	if v, ok := final.Frame.XFrameOptions.Get(); ok {
		report.XFrameOptions = model.Ptr(v)
	}
	if v, ok := final.Frame.CSPFrameAncestors.Get(); ok {
		report.CSPFrameAncestors = model.Ptr(v)
	}
	report.ReferrerMeta = final.Referrer.ReferrerMeta()

	return report
}
