package catalog

import (
	"fmt"
	"strings"
)

// ErrorKind classifies catalog load failures.
type ErrorKind string

const (
	MissingAsset     ErrorKind = "missing_asset"
	MalformedRecord  ErrorKind = "malformed_record"
	DuplicateLineKey ErrorKind = "duplicate_line_key"
)

// Error reports why a pack could not be cataloged.
type Error struct {
	Kind ErrorKind
	Pack string
	Path string
	Key  string
	Err  error
}

func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("catalog %s", e.Kind)}
	if e.Pack != "" {
		parts = append(parts, "pack "+e.Pack)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Key != "" {
		parts = append(parts, "key "+e.Key)
	}
	msg := strings.Join(parts, ": ")
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
