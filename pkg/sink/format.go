package sink

import (
	"strings"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
)

// Format is an output encoding of a record.
type Format string

const (
	FormatJSON    Format = "json"
	FormatGraphML Format = "graphml"
	FormatDOT     Format = "dot"
	FormatSVG     Format = "svg"
	FormatBench   Format = "bench"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatGraphML, FormatDOT, FormatSVG, FormatBench}

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want json, graphml, dot, svg or bench)", s)
}

// ParseFormats parses a list of names, accepting comma-separated entries
// and dropping duplicates. An empty list yields [FormatJSON].
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f, err := ParseFormat(part)
			if err != nil {
				return nil, err
			}
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		out = []Format{FormatJSON}
	}
	return out, nil
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string { return string(f) }

// ContentType returns the MIME type used when serving the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatGraphML:
		return "application/graphml+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}
