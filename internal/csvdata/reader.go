// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package csvdata

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/token"
)

// Options configures a Reader, per spec §4.4's
// open(path, encoding?, separator=';', quote='"', trim=true) contract.
type Options struct {
	EncodingHint string
	Separator    byte
	Quote        byte
	Trim         bool
}

// DefaultOptions returns Paradox's conventional CSV dialect.
func DefaultOptions() Options {
	return Options{Separator: ';', Quote: '"', Trim: true}
}

// Diagnostic is a row- or field-level warning collected while scanning.
type Diagnostic struct {
	Line    int
	Message string
}

// Reader streams a CSV file line by line, applying Paradox-style
// quoting: quoted fields may embed the separator and `""` as an
// escaped quote; an unescaped quote inside an unquoted field is kept
// literally with a warning rather than aborting the parse.
type Reader struct {
	scanner *bufio.Scanner
	opts    Options
	line    int
	diags   []Diagnostic
}

// Open reads path, decodes it per opts.EncodingHint (BOM/UTF-8/
// Windows-1252 auto-detection, same as the lexer), and returns a Reader
// positioned before the first line.
func Open(path string, opts Options) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFromBytes(data, opts)
}

// NewFromBytes builds a Reader directly from an in-memory buffer,
// useful for effective-file bytes assembled by the mod overlay (C8).
func NewFromBytes(data []byte, opts Options) (*Reader, error) {
	if opts.Separator == 0 {
		opts.Separator = ';'
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}
	decoded, _, err := token.DecodeSource(data, opts.EncodingHint)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(bytes.NewReader(decoded))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{scanner: sc, opts: opts}, nil
}

// Diagnostics returns every warning collected so far.
func (r *Reader) Diagnostics() []Diagnostic { return r.diags }

func (r *Reader) warn(line int, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)})
}

// ReadHeader reads and returns the first non-empty line's fields.
func (r *Reader) ReadHeader() ([]string, error) {
	fields, ok, err := r.ReadLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, cerrs.ErrCsvBadHeader
	}
	return fields, nil
}

// ReadLine returns the next non-empty line's fields, or ok=false at
// EOF. Empty lines are skipped per spec §4.4.
func (r *Reader) ReadLine() ([]string, bool, error) {
	for r.scanner.Scan() {
		r.line++
		raw := r.scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		return r.parseLine(raw), true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (r *Reader) parseLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := byte(0)
		if runes[i] < 256 {
			ch = byte(runes[i])
		}
		switch {
		case inQuotes && ch == r.opts.Quote:
			if i+1 < len(runes) && byte(runes[i+1]) == r.opts.Quote {
				cur.WriteByte(r.opts.Quote)
				i++
				continue
			}
			inQuotes = false
		case !inQuotes && ch == r.opts.Quote:
			if cur.Len() == 0 {
				inQuotes = true
			} else {
				r.warn(r.line, "literal quote inside unquoted field")
				cur.WriteRune(runes[i])
			}
		case !inQuotes && ch == r.opts.Separator:
			fields = append(fields, r.finishField(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(runes[i])
		}
	}
	fields = append(fields, r.finishField(cur.String()))
	if inQuotes {
		r.warn(r.line, "unterminated quoted field")
	}
	return fields
}

func (r *Reader) finishField(s string) string {
	if r.opts.Trim {
		return strings.TrimSpace(s)
	}
	return s
}

// Each streams every remaining data row (after the caller has consumed
// the header via ReadHeader) through fn, which receives the raw fields
// and 1-based line number. Stops at the first error fn returns.
func (r *Reader) Each(fn func(fields []string, line int) error) error {
	for {
		fields, ok, err := r.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(fields, r.line); err != nil {
			return err
		}
	}
}
