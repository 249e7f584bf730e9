package tabular

import "strings"

// memSource backs both decoders with fully materialized rows. Headers are
// trimmed; cells are trimmed on access and ragged rows read as empty.
type memSource struct {
	headers []string
	rows    [][]string
}

func newMemSource(headers []string, rows [][]string) *memSource {
	return &memSource{headers: headers, rows: rows}
}

func (s *memSource) Headers() []string {
	out := make([]string, len(s.headers))
	copy(out, s.headers)
	return out
}

func (s *memSource) Rows() (Iterator, error) {
	return &memIterator{src: s}, nil
}

type memIterator struct {
	src *memSource
	pos int
}

func (it *memIterator) Next() (Row, int, bool, error) {
	if it.pos >= len(it.src.rows) {
		return nil, 0, false, nil
	}
	rec := it.src.rows[it.pos]
	it.pos++

	row := make(Row, len(it.src.headers))
	for i, h := range it.src.headers {
		if h == "" {
			continue
		}
		var cell string
		if i < len(rec) {
			cell = strings.TrimSpace(rec[i])
		}
		row[h] = cell
	}
	return row, it.pos, true, nil
}
