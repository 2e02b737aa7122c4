package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nao1215/embedprobe/internal/model"
)

// WriteChannels writes urls as {"channels": [...]} to path, creating parent
// directories. A nil slice is written as an empty array.
func WriteChannels(path string, urls []string) error {
	return writeJSONFile(path, model.NewChannelList(urls))
}

// ReadChannels reads a channel list written by WriteChannels. A bare JSON
// array is accepted too. A missing file yields ErrInputNotFound.
func ReadChannels(path string) ([]string, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return model.NewChannelList(list).Channels, nil
	}

	var doc model.ChannelList
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
	}
	return model.NewChannelList(doc.Channels).Channels, nil
}

// WriteReports writes reports as {"results": [...]} to path, creating
// parent directories.
func WriteReports(path string, reports []model.ProbeReport) error {
	return writeJSONFile(path, model.NewReportFile(reports))
}

// ReadReports reads a probe report collection. A missing file yields
// ErrInputNotFound; a document without "results" yields no reports.
func ReadReports(path string) ([]model.ProbeReport, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	var doc model.ReportFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
	}
	return model.NewReportFile(doc.Results).Results, nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeJSONFile writes v as indented JSON. HTML escaping is off so query
// strings keep a literal '&'.
func writeJSONFile(path string, v any) error {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	data := buf.Bytes()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
