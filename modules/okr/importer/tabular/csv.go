package tabular

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/go-faster/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// openCSV decodes the whole file up front. Import files are bounded in
// size, and materializing makes re-iteration free.
func openCSV(data []byte) (Source, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if len(records) == 0 {
		return nil, ErrUnsupportedFormat.WithDetails("csv file has no header row")
	}

	headers := make([]string, 0, len(records[0]))
	for _, h := range records[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return newMemSource(headers, rows), nil
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
