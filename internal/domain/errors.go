package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLabelOutOfRange = errors.New("label out of range")
	ErrEmptyDataset    = errors.New("empty dataset")
)

// UnknownColumn marks a ParseError raised while splitting a record into fields.
const UnknownColumn = -1

// ParseError reports a field that could not be converted. Row and Column are 0-based.
type ParseError struct {
	Path   string
	Row    int
	Column int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == UnknownColumn {
		return fmt.Sprintf("parse %v: row %v: %v", e.Path, e.Row, e.Err)
	}
	return fmt.Sprintf("parse %v: row %v column %v: bad field %q: %v",
		e.Path, e.Row, e.Column, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DataLoadError reports a file that could not be opened or read.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load %v: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// DimensionMismatchError reports a record whose feature count differs from the expected one.
type DimensionMismatchError struct {
	Path     string
	Row      int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("load %v: row %v has %v features, expected %v",
		e.Path, e.Row, e.Actual, e.Expected)
}
