package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// maxCatalogSize bounds the catalog response body.
const maxCatalogSize = 32 << 20

// entry is one event of a day in the remote catalog.
type entry struct {
	Channels []string `json:"channels"`
}

// errLimitReached stops the walk once enough URLs are collected.
var errLimitReached = errors.New("limit reached")

// FetchRemote downloads the catalog at apiURL and returns at most limit
// unique channel URLs in document order. Days are visited in the order they
// appear in the response, not sorted.
func FetchRemote(ctx context.Context, client *http.Client, apiURL string, limit int) ([]string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, apiURL, err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("fetching catalog", "url", apiURL)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, apiURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, apiURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, apiURL, err)
	}

	channels, err := ParseCatalog(body, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", apiURL, err)
	}

	slog.Debug("catalog fetched", "url", apiURL, "channels", len(channels))
	return channels, nil
}

// ParseCatalog extracts channel URLs from a catalog document of the form
// {"events": {"<day>": [{"channels": ["<url>", ...]}, ...], ...}}.
// Escaped slashes left in the strings are unescaped, duplicates are dropped
// keeping the first occurrence, and parsing stops once limit URLs are
// collected. A document without events yields an empty list.
func ParseCatalog(data []byte, limit int) ([]string, error) {
	var doc struct {
		Events json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}

	channels := make([]string, 0)
	if limit <= 0 || len(doc.Events) == 0 || string(doc.Events) == "null" {
		return channels, nil
	}

	seen := make(map[string]struct{})
	err := walkEvents(doc.Events, func(raw string) error {
		src := strings.ReplaceAll(raw, `\/`, `/`)
		if _, dup := seen[src]; dup {
			return nil
		}
		seen[src] = struct{}{}
		channels = append(channels, src)
		if len(channels) >= limit {
			return errLimitReached
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return nil, err
	}
	return channels, nil
}

// walkEvents calls fn for every channel of the events object, keeping the
// key order of the document. encoding/json maps lose that order, so the
// object is read token by token and only the day values are decoded.
func walkEvents(events json.RawMessage, fn func(string) error) error {
	dec := json.NewDecoder(bytes.NewReader(events))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: events is not an object", ErrMalformedCatalog)
	}

	for dec.More() {
		dayTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
		}
		day, _ := dayTok.(string)

		var entries []entry
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("%w: day %q: %w", ErrMalformedCatalog, day, err)
		}

		for _, e := range entries {
			for _, c := range e.Channels {
				if err := fn(c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
