package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// DelimiterCandidates are tried in order; earlier candidates win ties.
var DelimiterCandidates = []rune{',', '\t', ';', '|', ' '}

// maxSniffLines bounds how much of the file is examined
const maxSniffLines = 50

// SniffDelimiter picks the candidate that splits every sampled non-empty
// line into the same number of fields, more than one. The highest field
// count wins. A space result means runs of whitespace.
func SniffDelimiter(sample []byte) (rune, error) {
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return 0, apperrors.NewInputError("cannot detect delimiter: no data", nil)
	}

	best, bestCount := rune(0), 1
	for _, cand := range DelimiterCandidates {
		count, ok := consistentFieldCount(lines, cand)
		if ok && count > bestCount {
			best, bestCount = cand, count
		}
	}

	if best == 0 {
		return 0, apperrors.NewInputError("cannot detect delimiter", nil).
			WithContext("candidates", string(DelimiterCandidates))
	}
	return best, nil
}

// sampleLines returns up to maxSniffLines non-empty lines
func sampleLines(sample []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(sample))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() && len(lines) < maxSniffLines {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// consistentFieldCount reports the field count shared by every line
func consistentFieldCount(lines []string, delim rune) (int, bool) {
	count := -1
	for _, line := range lines {
		n := fieldCount(line, delim)
		if n < 0 {
			return 0, false
		}
		if count == -1 {
			count = n
		} else if n != count {
			return 0, false
		}
	}
	return count, count > 1
}

// fieldCount splits one line, honoring quotes for the single-rune delimiters
func fieldCount(line string, delim rune) int {
	if delim == ' ' {
		fields, ok := splitWhitespace(line)
		if !ok {
			return -1
		}
		return len(fields)
	}
	if !strings.ContainsRune(line, delim) {
		return 1
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	rec, err := r.Read()
	if err != nil && err != io.EOF {
		return -1
	}
	return len(rec)
}

// splitWhitespace splits line on runs of blanks outside double quotes.
// Quoted fields lose their quotes and a doubled quote inside them is a
// literal quote. ok is false when a quote is left open.
func splitWhitespace(line string) (fields []string, ok bool) {
	var cur strings.Builder
	inField, quoted := false, false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted:
			if c != '"' {
				cur.WriteByte(c)
			} else if i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				quoted = false
			}
		case c == ' ' || c == '\t':
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		case c == '"':
			quoted, inField = true, true
		default:
			cur.WriteByte(c)
			inField = true
		}
	}

	if quoted {
		return nil, false
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, true
}

// normalizeWhitespace rewrites whitespace-separated content as tab-separated
// CSV, quoting fields again where needed
func normalizeWhitespace(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		fields, ok := splitWhitespace(strings.TrimRight(sc.Text(), "\r"))
		if !ok {
			return nil, apperrors.NewInputError(fmt.Sprintf("line %d: unterminated quoted field", line), nil)
		}
		if len(fields) == 0 {
			continue
		}
		if err := w.Write(fields); err != nil {
			return nil, apperrors.NewInputError("cannot normalize whitespace-separated input", err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.NewInputError("cannot read whitespace-separated input", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.NewInputError("cannot normalize whitespace-separated input", err)
	}
	return buf.Bytes(), nil
}
