// Package export reads Apple Health export documents as a forward-only
// stream of records.
package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"example.com/healthdata/internal/domain"
)

// Scanner walks an export document token by token and yields one RawRecord
// per <Record> element. It never materialises the document tree, so memory
// stays flat regardless of export size.
type Scanner struct {
	dec *xml.Decoder
}

// NewScanner wraps a readable export source.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{dec: xml.NewDecoder(r)}
}

// Next returns the next record in document order. It returns io.EOF at the
// end of the document and a domain.ErrMalformedExport-wrapped error if the
// underlying content is not well-formed XML. Missing attributes surface as
// empty fields, not errors; classification is the caller's concern.
func (s *Scanner) Next() (domain.RawRecord, error) {
	for {
		tok, err := s.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.RawRecord{}, io.EOF
			}
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return domain.RawRecord{}, fmt.Errorf("%w: %v", domain.ErrMalformedExport, err)
			}
			// Source I/O failure or cancelled read; not a document defect.
			return domain.RawRecord{}, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Record" {
			continue
		}

		var rec domain.RawRecord
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "type":
				rec.Type = attr.Value
			case "startDate":
				rec.StartDate = attr.Value
			case "endDate":
				rec.EndDate = attr.Value
			case "value":
				rec.Value = attr.Value
			case "unit":
				rec.Unit = attr.Value
			case "sourceName":
				rec.Source = attr.Value
			}
		}
		return rec, nil
	}
}
