package probe

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SampleOutcome tags the result of sampling a response body.
type SampleOutcome int

const (
	// SampleSkipped means no body was sampled (HEAD path).
	SampleSkipped SampleOutcome = iota
	// SampleFound means a referrer meta tag was seen.
	SampleFound
	// SampleNotFound means the prefix was read and had no referrer meta tag.
	SampleNotFound
	// SampleFailed means reading or decoding the prefix failed.
	SampleFailed
)

// Sample is the result of looking for a referrer meta tag in a body prefix.
type Sample struct {
	Outcome SampleOutcome
	// Err is set when Outcome is SampleFailed.
	Err error
}

// ReferrerMeta maps the sample onto the report field: true or false when the
// prefix was inspected, nil when it was skipped or could not be read. False is
// only ever produced for a prefix that was actually read.
func (s Sample) ReferrerMeta() *bool {
	switch s.Outcome {
	case SampleFound:
		v := true
		return &v
	case SampleNotFound:
		v := false
		return &v
	default:
		return nil
	}
}

// SampleBody reads at most limit bytes of body and looks for a
// <meta name="referrer"> tag. It never returns an error; failures are
// reported as SampleFailed.
func SampleBody(body io.Reader, limit int64) Sample {
	if body == nil {
		return Sample{Outcome: SampleFailed, Err: errors.New("nil body")}
	}

	prefix, err := io.ReadAll(io.LimitReader(body, limit))
	if err != nil {
		return Sample{Outcome: SampleFailed, Err: err}
	}

	text, err := decodeLenient(prefix)
	if err != nil {
		return Sample{Outcome: SampleFailed, Err: err}
	}

	if hasReferrerMeta(text) {
		return Sample{Outcome: SampleFound}
	}
	return Sample{Outcome: SampleNotFound}
}

// decodeLenient converts b to valid UTF-8, replacing invalid sequences.
// The prefix is cut at an arbitrary byte, so a truncated trailing rune is
// expected and must not be fatal.
func decodeLenient(b []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// hasReferrerMeta reports whether text contains a meta tag whose name
// attribute is "referrer". The tokenizer accepts double-quoted,
// single-quoted and unquoted attributes and lowercases tag and attribute
// names; the attribute value is compared case-insensitively.
func hasReferrerMeta(text string) bool {
	fold := cases.Fold()
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or a tag cut off at the end of the prefix.
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "name" && fold.String(strings.TrimSpace(string(val))) == "referrer" {
					return true
				}
				if !more {
					break
				}
			}
		}
	}
}
