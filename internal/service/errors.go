package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrMissingFile            = errors.New("no file provided")
	ErrMissingAccount         = errors.New("account name not provided")
	ErrNotFound               = errors.New("not found")
	ErrUnknownAccount         = errors.New("unknown account")
	ErrUnknownBudgetGroup     = errors.New("unknown budget group")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// UnsupportedFormatError reports an import format id missing from the
// configured bank format registry.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported import format: %q", e.Format)
}

// ValidationError reports field-level failures on one record. The row number
// is 1-based over the parsed (post-header) records.
type ValidationError struct {
	Row    int
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("record %d invalid: %s", e.Row, strings.Join(parts, "; "))
}
