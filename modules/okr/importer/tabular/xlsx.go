package tabular

import (
	"bytes"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// preferredSheet is read when present; otherwise the first sheet wins.
const preferredSheet = "Datos"

func openXLSX(data []byte) (Source, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedFormat.WithDetails("opening workbook: %v", err)
	}
	defer f.Close()

	sheet := pickSheet(f)
	if sheet == "" {
		return nil, ErrUnsupportedFormat.WithDetails("workbook has no sheets")
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, "reading sheet rows")
	}
	if len(records) == 0 {
		return nil, ErrUnsupportedFormat.WithDetails("sheet %q has no header row", sheet)
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

func pickSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if s == preferredSheet {
			return s
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}
