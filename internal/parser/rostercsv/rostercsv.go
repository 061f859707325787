// Package rostercsv parses roster spreadsheets exported as CSV and
// normalizes them into canonical records.
//
// The exported files share a fixed layout produced by the signup sheet:
//
//	line 1: banner/title row            (skipped)
//	line 2: the real header row          (matched against the header map)
//	line 3: a secondary label row        (discarded)
//	rest:   data rows
//
// Headers are whitespace-trimmed and looked up in a fixed header → canonical
// name table; unrecognized headers are dropped. Every canonical field absent
// from the source is still materialized on every record as empty text, so
// downstream categorical counting treats "not provided" as an explicit
// empty-string category rather than a missing key.
package rostercsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// MalformedInputError reports a file whose banner or header could not be
// read, or that could not be opened at all. The pipeline skips such files
// and continues with the rest of the input directory.
type MalformedInputError struct {
	Path string
	Err  error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %s: %v", e.Path, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Options configures the parser. All fields are optional except HeaderMap
// and Fields, which define the canonical schema the output conforms to.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// HeaderMap maps trimmed source header text to canonical field names.
	// Headers not present in the map are dropped.
	HeaderMap map[string]string

	// Fields is the canonical field set every output record carries.
	// Fields never seen in the source are filled with "".
	Fields []string
}

// Parser normalizes roster CSV files according to Options. A Parser is
// cheap and safe to reuse across files; it is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes one roster CSV from r and returns normalized records in
// source order. A file with no data rows after the banner, header, and label
// rows yields an empty slice and a nil error.
func (p *Parser) Parse(r io.Reader) ([]records.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Real-world exports have ragged rows and stray quotes; tolerate both
	// and fix up widths per row instead.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	// Banner row.
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read banner row: %w", err)
	}

	// Header row.
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	canonical := p.canonicalHeaders(header)

	// Secondary label row; its absence just means there is no data.
	if _, err := cr.Read(); err == io.EOF {
		return []records.Record{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("read label row: %w", err)
	}

	out := []records.Record{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read data row: %w", err)
		}

		rec := make(records.Record, len(p.opt.Fields))
		for _, f := range p.opt.Fields {
			rec[f] = ""
		}
		for i, name := range canonical {
			if name == "" || i >= len(row) {
				continue
			}
			rec[name] = row[i]
		}
		out = append(out, rec)
	}
	return out, nil
}

// canonicalHeaders maps raw header cells to canonical field names. Cells
// whose trimmed text is not in the header map resolve to "" and their
// column is ignored.
func (p *Parser) canonicalHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, raw := range header {
		h := raw
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = p.opt.HeaderMap[strings.TrimSpace(h)]
	}
	return out
}
