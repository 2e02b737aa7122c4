package probe

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// errReader fails on the first read.
type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

// TestSampleBody tests referrer meta detection in a body prefix.
func TestSampleBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want SampleOutcome
	}{
		{"double quotes", `<html><head><meta name="referrer" content="no-referrer"></head>`, SampleFound},
		{"single quotes", `<head><meta name='referrer' content='origin'></head>`, SampleFound},
		{"uppercase", `<HEAD><META NAME="REFERRER" CONTENT="no-referrer"></HEAD>`, SampleFound},
		{"self closing", `<meta name="referrer" content="no-referrer" />`, SampleFound},
		{"other meta", `<meta name="viewport" content="width=device-width">`, SampleNotFound},
		{"no html", `#EXTM3U
#EXT-X-VERSION:3`, SampleNotFound},
		{"empty body", ``, SampleNotFound},
		{"invalid utf-8", "\xff\xfe<meta name=\"referrer\" content=\"no-referrer\">", SampleFound},
		{"truncated tag", `<html><meta name="refer`, SampleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SampleBody(strings.NewReader(tt.body), 8192)
			if got.Outcome != tt.want {
				t.Errorf("expected outcome %d, got %d (err %v)", tt.want, got.Outcome, got.Err)
			}
		})
	}

	t.Run("tag beyond the limit is not seen", func(t *testing.T) {
		t.Parallel()
		body := strings.Repeat("a", 100) + `<meta name="referrer" content="no-referrer">`
		got := SampleBody(strings.NewReader(body), 100)
		if got.Outcome != SampleNotFound {
			t.Errorf("expected SampleNotFound, got %d", got.Outcome)
		}
	})

	t.Run("read error is reported as failure", func(t *testing.T) {
		t.Parallel()
		got := SampleBody(errReader{}, 8192)
		if got.Outcome != SampleFailed {
			t.Errorf("expected SampleFailed, got %d", got.Outcome)
		}
		if got.Err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("error after partial read is reported as failure", func(t *testing.T) {
		t.Parallel()
		r := io.MultiReader(strings.NewReader(`<meta name="referrer">`), errReader{})
		got := SampleBody(r, 8192)
		if got.Outcome != SampleFailed {
			t.Errorf("expected SampleFailed, got %d", got.Outcome)
		}
	})

	t.Run("nil body is reported as failure", func(t *testing.T) {
		t.Parallel()
		if got := SampleBody(nil, 8192); got.Outcome != SampleFailed {
			t.Errorf("expected SampleFailed, got %d", got.Outcome)
		}
	})
}

// TestSampleReferrerMeta tests mapping onto the report field.
func TestSampleReferrerMeta(t *testing.T) {
	t.Parallel()

	if v := (Sample{Outcome: SampleFound}).ReferrerMeta(); v == nil || !*v {
		t.Error("expected true for SampleFound")
	}
	if v := (Sample{Outcome: SampleNotFound}).ReferrerMeta(); v == nil || *v {
		t.Error("expected false for SampleNotFound")
	}
	if v := (Sample{Outcome: SampleFailed}).ReferrerMeta(); v != nil {
		t.Error("expected nil for SampleFailed")
	}
	if v := (Sample{}).ReferrerMeta(); v != nil {
		t.Error("expected nil for SampleSkipped")
	}
}
