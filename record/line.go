// Package record implements the comma-delimited text format used by the
// small on-disk collections (favorites, prefix rules, constant prefixes) and
// a generic read-all / mutate / write-all store on top of it.
//
// A record is one row of fields separated by commas. A field may be wrapped
// in double quotes, in which case commas, newlines and doubled quotes ("")
// inside it are literal; a quote later in a field is just a character. Every
// field is trimmed after unquoting. Blank lines and lines whose first
// non-space character is '#' are skipped.
package record

import "strings"

const (
	delimiter = ','
	quote     = '"'
)

// parser accumulates the fields of a single record. A record can span several
// physical lines while a quoted field is open.
type parser struct {
	fields   []string
	cur      strings.Builder
	inQuotes bool
	quoted   bool // current field opened with a quote
	text     bool // current field has non-space content
	// literal disables quoting altogether; used to salvage lines whose
	// quote never closes.
	literal bool
}

// feed consumes one physical line. It reports whether the record is complete;
// false means a quoted field is still open and the next line continues it.
// A quote opens a quoted section only as the first non-space character of a
// field; anywhere else it is an ordinary character.
func (p *parser) feed(line string) bool {
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case p.literal:
			if c == delimiter {
				p.endField()
				continue
			}
			p.cur.WriteByte(c)
		case c == quote && p.inQuotes:
			if i+1 < len(line) && line[i+1] == quote {
				p.cur.WriteByte(quote)
				i++
				continue
			}
			p.inQuotes = false
		case c == quote && !p.quoted && !p.text:
			p.quoted, p.inQuotes = true, true
		case c == delimiter && !p.inQuotes:
			p.endField()
		default:
			p.cur.WriteByte(c)
			if !p.inQuotes && c != ' ' && c != '\t' && c != '\r' {
				p.text = true
			}
		}
	}
	return !p.inQuotes
}

// continueLine records the line break swallowed by an open quoted field.
func (p *parser) continueLine() {
	p.cur.WriteByte('\n')
}

// finish closes the last field and returns the record. An unterminated quote
// is closed at end of input.
func (p *parser) finish() []string {
	p.inQuotes = false
	p.endField()
	return p.fields
}

func (p *parser) endField() {
	p.fields = append(p.fields, strings.TrimSpace(p.cur.String()))
	p.cur.Reset()
	p.quoted, p.text = false, false
}

// parseSingle parses line on its own. If a quote opened on the line never
// closes, the line is parsed again with quotes taken literally so that a
// stray quote cannot merge fields.
func parseSingle(line string) []string {
	var p parser
	if !p.feed(line) {
		p = parser{literal: true}
		p.feed(line)
	}
	return p.finish()
}

// isSkippable reports whether a line is blank or a comment.
func isSkippable(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || t[0] == '#'
}

// ParseLine splits a single line into fields. ok is false for blank and
// comment lines, which carry no record. A quote left open at the end of the
// line is closed implicitly. Each field is trimmed after unquoting, so
// whitespace at the edges of a value is never preserved.
func ParseLine(line string) (fields []string, ok bool) {
	if isSkippable(line) {
		return nil, false
	}
	var p parser
	p.feed(line)
	return p.finish(), true
}

// FormatLine joins fields into one record line, quoting where needed so that
// reading the line back yields the same fields.
func FormatLine(fields []string) string {
	if len(fields) == 1 && fields[0] == "" {
		return `""`
	}
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(delimiter)
		}
		if needsQuoting(f) {
			b.WriteByte(quote)
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte(quote)
			continue
		}
		b.WriteString(f)
	}
	return b.String()
}

func needsQuoting(f string) bool {
	if f == "" {
		return false
	}
	return strings.ContainsAny(f, ",\"\n\r") || f[0] == '#'
}
