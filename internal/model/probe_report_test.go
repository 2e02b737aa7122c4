package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestIsHTTPSURL tests scheme detection on the original URL.
func TestIsHTTPSURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"https url", "https://a.example/x", true},
		{"uppercase scheme", "HTTPS://a.example/x", true},
		{"http url", "http://b.example/y", false},
		{"no scheme", "a.example/x", false},
		{"empty", "", false},
		{"invalid escape keeps scheme", "https://a.example/%zz", true},
		{"ftp", "ftp://a.example/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsHTTPSURL(tt.url); got != tt.want {
				t.Errorf("IsHTTPSURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// TestNewProbeReport tests the initial state of a report.
func TestNewProbeReport(t *testing.T) {
	t.Parallel()

	r := NewProbeReport("https://a.example/x")

	if r.URL != "https://a.example/x" {
		t.Errorf("unexpected URL: %q", r.URL)
	}
	if !r.IsHTTPS {
		t.Error("expected IsHTTPS to be true")
	}
	if r.HasStatus() {
		t.Error("expected no status on a fresh report")
	}
	if r.Failed() {
		t.Error("expected no error on a fresh report")
	}
	if r.StatusCode() != 0 {
		t.Errorf("expected status code 0, got %d", r.StatusCode())
	}
	if r.FinalURLString() != "" {
		t.Errorf("expected empty final URL, got %q", r.FinalURLString())
	}
}

// TestProbeReportJSON tests that absent fields are written as null.
func TestProbeReportJSON(t *testing.T) {
	t.Parallel()

	t.Run("absent fields serialize as null", func(t *testing.T) {
		t.Parallel()

		r := NewProbeReport("http://b.example/y")
		r.Error = Ptr("connection refused")

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := string(data)
		for _, want := range []string{
			`"url":"http://b.example/y"`,
			`"final_url":null`,
			`"status":null`,
			`"is_https":false`,
			`"x_frame_options":null`,
			`"csp_frame_ancestors":null`,
			`"referrer_meta":null`,
			`"error":"connection refused"`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %s in %s", want, out)
			}
		}
	})

	t.Run("reads original report format", func(t *testing.T) {
		t.Parallel()

		input := `{"url": "https://a.example/x", "final_url": "https://a.example/x/", "status": 200,
			"is_https": true, "x_frame_options": "DENY", "csp_frame_ancestors": null,
			"referrer_meta": true, "error": null}`

		var r ProbeReport
		if err := json.Unmarshal([]byte(input), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.StatusCode() != 200 {
			t.Errorf("expected status 200, got %d", r.StatusCode())
		}
		if r.XFrameOptions == nil || *r.XFrameOptions != "DENY" {
			t.Errorf("expected X-Frame-Options DENY, got %v", r.XFrameOptions)
		}
		if r.CSPFrameAncestors != nil {
			t.Error("expected nil CSP")
		}
		if !r.HasFrameRestriction() {
			t.Error("expected frame restriction")
		}
		if r.ReferrerMeta == nil || !*r.ReferrerMeta {
			t.Error("expected referrer_meta true")
		}
	})

	t.Run("referrer_meta keeps false apart from null", func(t *testing.T) {
		t.Parallel()

		inspected := NewProbeReport("https://a.example/x")
		inspected.ReferrerMeta = Ptr(false)
		skipped := NewProbeReport("https://a.example/x")

		for _, tt := range []struct {
			report ProbeReport
			want   string
		}{
			{inspected, `"referrer_meta":false`},
			{skipped, `"referrer_meta":null`},
		} {
			data, err := json.Marshal(tt.report)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("expected %s in %s", tt.want, data)
			}
		}
	})
}

// TestNewChannelList tests nil normalization.
func TestNewChannelList(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewChannelList(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"channels":[]}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	data, err = json.Marshal(NewReportFile(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"results":[]}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}
