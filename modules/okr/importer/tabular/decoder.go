package tabular

import (
	"github.com/stratix-io/stratix-platform/pkg/serrors"
)

const (
	ContentTypeCSV        = "text/csv"
	ContentTypeCSVAlt     = "application/csv"
	ContentTypeXLSX       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeXLSXLegacy = "application/vnd.ms-excel"
)

var ErrUnsupportedFormat = serrors.NewError(
	"IMPORT_UNSUPPORTED_FORMAT",
	"unsupported import file format",
	"",
)

// Row is one decoded data row keyed by header name. Missing cells are
// present with an empty value so lookups never distinguish absent from
// blank.
type Row map[string]string

// Iterator walks the data rows of a source once, in file order.
type Iterator interface {
	// Next returns the next row and its 1-based position among data rows
	// (the header is not counted). ok is false after the last row.
	Next() (row Row, number int, ok bool, err error)
}

// Source is a decoded tabular file. Rows may be called more than once;
// each call restarts from the first data row.
type Source interface {
	Headers() []string
	Rows() (Iterator, error)
}

// Open decodes raw file bytes according to the declared content type.
// Unknown content types fail with ErrUnsupportedFormat.
func Open(data []byte, contentType string) (Source, error) {
	switch contentType {
	case ContentTypeCSV, ContentTypeCSVAlt:
		return openCSV(data)
	case ContentTypeXLSX, ContentTypeXLSXLegacy:
		return openXLSX(data)
	}
	return nil, ErrUnsupportedFormat.WithDetails("content type %q", contentType)
}
