package record

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Row is one parsed record together with the line it started on.
type Row struct {
	Line   int
	Fields []string
}

// ReadRows parses every record in r in order, skipping blank and comment
// lines. Quoted fields may span lines. If the input ends while a quote is
// still open, the lines it swallowed are parsed again one at a time, so an
// unbalanced quote costs at most its own line's quoting, never later records.
func ReadRows(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	var (
		rows    []Row
		p       *parser
		pending []string // physical lines of the open record
		start   int
		lineNo  int
	)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		eof := errors.Is(err, io.EOF)
		if eof && line == "" {
			break
		}
		lineNo++
		line = strings.TrimSuffix(line, "\n")

		if p == nil {
			if isSkippable(line) {
				if eof {
					break
				}
				continue
			}
			p = &parser{}
			start = lineNo
			pending = pending[:0]
		} else {
			p.continueLine()
		}
		pending = append(pending, line)
		if p.feed(line) {
			rows = append(rows, Row{Line: start, Fields: p.finish()})
			p = nil
		}
		if eof {
			break
		}
	}
	if p != nil {
		for i, line := range pending {
			if isSkippable(line) {
				continue
			}
			rows = append(rows, Row{Line: start + i, Fields: parseSingle(line)})
		}
	}
	return rows, nil
}

// ReadFile reads the rows of the file at path. A missing file yields no rows
// and no error.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return ReadRows(f)
}

// WriteRows writes a "# header" comment line followed by one line per row.
func WriteRows(w io.Writer, header string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	if header != "" {
		if _, err := bw.WriteString("# " + header + "\n"); err != nil {
			return err
		}
	}
	for _, fields := range rows {
		if _, err := bw.WriteString(FormatLine(fields) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile replaces the contents of path with header and rows, creating
// parent directories as needed. The file is truncated and rewritten in place;
// a crash mid-write can leave it incomplete.
func WriteFile(path, header string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRows(f, header, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
