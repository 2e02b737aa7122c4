package catalog

import (
	"encoding/json"
	"log/slog"
	"os"
)

// LoadSnapshot reads a local channel list from path and returns at most
// limit URLs in file order. The document is either a bare array of URLs or
// an object with a "channels" array; other shapes yield no URLs.
//
// Duplicates are kept. Any failure (missing file, invalid JSON, wrong shape)
// is logged and yields an empty list, never an error.
func LoadSnapshot(path string, limit int) []string {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		slog.Warn("failed to read channel snapshot", "path", path, "error", err)
		return []string{}
	}

	channels, err := ParseSnapshot(data)
	if err != nil {
		slog.Warn("failed to parse channel snapshot", "path", path, "error", err)
		return []string{}
	}

	if limit < 0 {
		limit = 0
	}
	if len(channels) > limit {
		channels = channels[:limit]
	}
	return channels
}

// ParseSnapshot decodes a bare array of URLs or an object with a "channels"
// array. An object without "channels" yields an empty list.
func ParseSnapshot(data []byte) ([]string, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		return list, nil
	}

	var doc struct {
		Channels []string `json:"channels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Channels == nil {
		return []string{}, nil
	}
	return doc.Channels, nil
}
