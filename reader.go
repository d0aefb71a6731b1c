package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"
)

const (
	fieldCount   = 7
	defaultSize  = 1.0
	defaultColor = "#000000"
	hexDigits    = "0123456789abcdefABCDEF"
)

var (
	ErrFieldCount     = errors.New("wrong number of columns")
	ErrMalformedField = errors.New("malformed field")
)

// RecordError is a fatal problem with one input line.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Reader reads feature records from a tab-separated table.
// Recoverable field problems are logged and repaired or skipped;
// structural problems stop the reader.
type Reader struct {
	s       *bufio.Scanner
	log     logrus.FieldLogger
	line    int
	skipped int
}

// NewReader returns a Reader reading from r and reporting diagnostics to log.
func NewReader(r io.Reader, log logrus.FieldLogger) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{s: s, log: log}
}

// Line returns the number of the last record read. Comment and blank lines are not counted.
func (r *Reader) Line() int { return r.line }

// Skipped returns the number of records dropped so far.
func (r *Reader) Skipped() int { return r.skipped }

// Read returns the next usable record, or io.EOF when the input is exhausted.
func (r *Reader) Read() (*FeatureRecord, error) {
	for r.s.Scan() {
		text := strings.TrimRightFunc(r.s.Text(), unicode.IsSpace)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		r.line++

		rec, err := r.parse(strings.Split(text, "\t"))
		if err != nil {
			return nil, &RecordError{Line: r.line, Err: err}
		}
		if rec == nil {
			r.skipped++
			continue
		}
		return rec, nil
	}
	if err := r.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// parse normalizes one split line. A nil record with a nil error means the record is skipped.
func (r *Reader) parse(fields []string) (*FeatureRecord, error) {
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrFieldCount, len(fields), fieldCount)
	}
	lg := r.log.WithField("line", r.line)

	start, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: start %q is not an integer", ErrMalformedField, fields[1])
	}
	end, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return nil, fmt.Errorf("%w: end %q is not an integer", ErrMalformedField, fields[2])
	}

	rec := &FeatureRecord{
		Line:      r.line,
		Chrom:     Chromosome(trimChromPrefix(strings.TrimSpace(fields[0]))),
		FeatStart: start,
		FeatEnd:   end,
		Kind:      parseKind(fields[3]),
		Size:      parseSize(lg, fields[4]),
		Color:     parseColor(lg, fields[5]),
	}

	copyNum, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil || (Copy(copyNum) != LeftCopy && Copy(copyNum) != RightCopy) {
		lg.WithField("value", fields[6]).Warn("feature chromosome copy unclear, expected 1 or 2; skipping")
		return nil, nil
	}
	rec.Copy = Copy(copyNum)

	if start < 0 || end < start {
		lg.WithFields(logrus.Fields{"start": start, "end": end}).
			Warn("feature interval unclear, expected 0 <= start <= end; skipping")
		return nil, nil
	}
	return rec, nil
}

// parseKind returns -1 for anything that is not an integer, leaving the
// range decision to the shape builder.
func parseKind(s string) ShapeKind {
	k, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return ShapeKind(k)
}

func parseSize(lg logrus.FieldLogger, s string) float64 {
	size, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(size > 0 && size <= 1) {
		lg.WithField("value", s).Warn("feature size unclear, bound it between 0 (0%) and 1 (100%); defaulting to 1")
		return defaultSize
	}
	return size
}

func parseColor(lg logrus.FieldLogger, s string) string {
	s = strings.TrimSpace(s)
	// colorful.Hex ignores trailing garbage, so every digit is checked too.
	if (len(s) == 7 || len(s) == 4) && strings.Trim(s[1:], hexDigits) == "" {
		if _, err := colorful.Hex(s); err == nil {
			return s
		}
	}
	lg.WithField("value", s).Warn("feature color unclear, define it in hex starting with #; defaulting to " + defaultColor)
	return defaultColor
}
