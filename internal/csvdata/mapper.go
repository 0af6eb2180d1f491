// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package csvdata

import (
	"fmt"

	"github.com/pdxcore/atlas/cerrs"
)

// RowMapper is the generic per-row strategy the engine dispatches
// through, per spec §4.4. Implementations declare how many fields a
// row should have, validate raw fields before mapping, and map valid
// fields to a typed row T.
type RowMapper[T any] interface {
	ExpectedFieldCount() int
	ValidateRow(fields []string, line int) error
	MapRow(fields []string, line int) T
}

// RowError pairs a validation failure with its source line.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// MapAllOptions controls how MapAll treats row-level failures.
type MapAllOptions struct {
	ContinueOnError bool
}

// MapAll reads every remaining row from r (after ReadHeader) through
// mapper, per spec §4.4: validate_row runs first; in continue-on-error
// mode a failing row is dropped (returned in the []RowError result) and
// parsing continues, otherwise the first failure aborts with
// cerrs.ErrCsvFieldCount (wrong field count) or cerrs.ErrCsvRowRejected
// (failed validation).
func MapAll[T any](r *Reader, mapper RowMapper[T], opts MapAllOptions) ([]T, []RowError, error) {
	var rows []T
	var rowErrs []RowError
	expected := mapper.ExpectedFieldCount()

	err := r.Each(func(fields []string, line int) error {
		if len(fields) != expected {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("%w: got %d fields, want %d", cerrs.ErrCsvFieldCount, len(fields), expected)})
			if opts.ContinueOnError {
				return nil
			}
			return cerrs.ErrCsvFieldCount
		}
		if err := mapper.ValidateRow(fields, line); err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			if opts.ContinueOnError {
				return nil
			}
			return cerrs.ErrCsvRowRejected
		}
		rows = append(rows, mapper.MapRow(fields, line))
		return nil
	})
	if err != nil {
		return rows, rowErrs, err
	}
	if len(rows) == 0 {
		return rows, rowErrs, cerrs.ErrCsvNoRows
	}
	return rows, rowErrs, nil
}
