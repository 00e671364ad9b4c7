// Package input loads chart data for the CLI from CSV or YAML files.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gantt2img/pkg/model"
)

// ErrUnsupportedFormat is returned for file extensions other than .csv, .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Format is an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Chart is a loaded data set: elements in row order plus their links.
type Chart struct {
	Title        string
	Elements     []model.Element
	Dependencies []model.Dependency
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads a chart file, choosing the decoder by extension.
func Load(path string, loc *time.Location) (Chart, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Chart{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Chart{}, fmt.Errorf("error opening input file: %w", err)
	}
	defer f.Close()
	return Read(f, format, loc)
}

// Read decodes a chart. Times without a zone are read in loc (UTC when nil).
func Read(r io.Reader, format Format, loc *time.Location) (Chart, error) {
	if loc == nil {
		loc = time.UTC
	}
	var (
		chart Chart
		err   error
	)
	switch format {
	case FormatCSV:
		chart, err = readCSV(r, loc)
	case FormatYAML:
		chart, err = readYAML(r, loc)
	default:
		return Chart{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Chart{}, err
	}
	for _, e := range chart.Elements {
		if err := e.Validate(); err != nil {
			return Chart{}, err
		}
	}
	return chart, nil
}

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTimestamp reads a date in one of the supported layouts, or a plain
// integer of milliseconds since the epoch. An empty string is 0, the
// engine's marker for a missing timestamp.
func ParseTimestamp(s string, loc *time.Location) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	var lastErr error
	for _, layout := range timestampFormats {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.UnixMilli(), nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("unable to parse timestamp '%s': %w", s, lastErr)
}

// splitList splits "a;b, c" into its non-empty trimmed parts.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' || r == '|' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseLink reads "id" or "id:SS" from a depends_on cell.
func parseLink(s, target string) model.Dependency {
	source, rel, _ := strings.Cut(s, ":")
	source = strings.TrimSpace(source)
	return model.Dependency{
		ID:       source + "->" + target,
		Source:   source,
		Target:   target,
		Relation: model.ParseRelation(strings.TrimSpace(rel)),
	}
}
