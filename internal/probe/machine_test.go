package probe

import (
	"errors"
	"net/http"
	"testing"
)

// TestNeedsFallback tests which lightweight statuses are rejections.
func TestNeedsFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusOK, false},
		{http.StatusNoContent, false},
		{http.StatusMovedPermanently, false},
		{http.StatusNotModified, false},
		{399, false},
		{http.StatusBadRequest, true},
		{http.StatusForbidden, true},
		{http.StatusNotFound, true},
		{http.StatusMethodNotAllowed, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		if got := NeedsFallback(tt.status); got != tt.want {
			t.Errorf("NeedsFallback(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

// TestAfterLightProbe tests the transition out of the lightweight probe.
func TestAfterLightProbe(t *testing.T) {
	t.Parallel()

	t.Run("success is accepted", func(t *testing.T) {
		t.Parallel()
		a := Responded(http.MethodHead, http.StatusOK, "https://a.example/", FrameHeaders{})
		if got := AfterLightProbe(a); got != StageAccepted {
			t.Errorf("expected %v, got %v", StageAccepted, got)
		}
	})

	t.Run("framing headers on success do not trigger fallback", func(t *testing.T) {
		t.Parallel()
		a := Responded(http.MethodHead, http.StatusOK, "https://a.example/", FrameHeaders{
			XFrameOptions: Present("DENY"),
		})
		if got := AfterLightProbe(a); got != StageAccepted {
			t.Errorf("expected %v, got %v", StageAccepted, got)
		}
	})

	t.Run("method not allowed falls back", func(t *testing.T) {
		t.Parallel()
		a := Responded(http.MethodHead, http.StatusMethodNotAllowed, "https://a.example/", FrameHeaders{})
		if got := AfterLightProbe(a); got != StageFallbackSent {
			t.Errorf("expected %v, got %v", StageFallbackSent, got)
		}
	})

	t.Run("server error falls back", func(t *testing.T) {
		t.Parallel()
		a := Responded(http.MethodHead, http.StatusServiceUnavailable, "https://a.example/", FrameHeaders{})
		if got := AfterLightProbe(a); got != StageFallbackSent {
			t.Errorf("expected %v, got %v", StageFallbackSent, got)
		}
	})

	t.Run("transport failure falls back", func(t *testing.T) {
		t.Parallel()
		a := Failed(http.MethodHead, errors.New("dial tcp: connection refused"))
		if got := AfterLightProbe(a); got != StageFallbackSent {
			t.Errorf("expected %v, got %v", StageFallbackSent, got)
		}
	})
}

// TestFinalize tests report construction from the authoritative attempt.
func TestFinalize(t *testing.T) {
	t.Parallel()

	t.Run("responded attempt sets status and headers", func(t *testing.T) {
		t.Parallel()

		a := Responded(http.MethodGet, http.StatusOK, "https://a.example/final", FrameHeaders{
			XFrameOptions:     Present("SAMEORIGIN"),
			CSPFrameAncestors: Present("frame-ancestors 'self'"),
		})
		a.Referrer = Sample{Outcome: SampleFound}

		r := Finalize("http://a.example/start", a)

		if r.URL != "http://a.example/start" {
			t.Errorf("expected original URL, got %q", r.URL)
		}
		if r.IsHTTPS {
			t.Error("expected IsHTTPS false for an http original URL")
		}
		if r.StatusCode() != http.StatusOK {
			t.Errorf("expected status 200, got %d", r.StatusCode())
		}
		if r.FinalURLString() != "https://a.example/final" {
			t.Errorf("unexpected final URL %q", r.FinalURLString())
		}
		if r.XFrameOptions == nil || *r.XFrameOptions != "SAMEORIGIN" {
			t.Errorf("unexpected X-Frame-Options %v", r.XFrameOptions)
		}
		if r.CSPFrameAncestors == nil || *r.CSPFrameAncestors != "frame-ancestors 'self'" {
			t.Errorf("unexpected CSP %v", r.CSPFrameAncestors)
		}
		if r.ReferrerMeta == nil || !*r.ReferrerMeta {
			t.Error("expected referrer_meta true")
		}
		if r.Error != nil {
			t.Errorf("expected no error, got %q", *r.Error)
		}
	})

	t.Run("failed attempt sets only error", func(t *testing.T) {
		t.Parallel()

		r := Finalize("https://a.example/", Failed(http.MethodGet, errors.New("connection refused")))

		if r.Error == nil || *r.Error != "connection refused" {
			t.Errorf("unexpected error %v", r.Error)
		}
		if r.Status != nil || r.FinalURL != nil {
			t.Error("expected status and final URL to be unset")
		}
		if r.XFrameOptions != nil || r.CSPFrameAncestors != nil || r.ReferrerMeta != nil {
			t.Error("expected header fields to be unset")
		}
		if !r.IsHTTPS {
			t.Error("expected IsHTTPS true even when probing failed")
		}
	})

	t.Run("failed attempt without error still reports failure", func(t *testing.T) {
		t.Parallel()

		r := Finalize("https://a.example/", Attempt{Method: http.MethodGet, Kind: AttemptFailed})
		if r.Error == nil {
			t.Error("expected an error message")
		}
	})
}

// TestStageString tests stage names used in logs.
func TestStageString(t *testing.T) {
	t.Parallel()

	stages := map[Stage]string{
		StageInitial:        "initial",
		StageLightProbeSent: "light_probe_sent",
		StageAccepted:       "accepted",
		StageFallbackSent:   "fallback_sent",
		StageTerminal:       "terminal",
		Stage(99):           "unknown",
	}
	for s, want := range stages {
		if s.String() != want {
			t.Errorf("Stage(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
