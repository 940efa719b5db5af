package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a run can meet
type ErrorKind string

const (
	KindInvalidRootPath ErrorKind = "invalid_root_path"
	KindEnumeration     ErrorKind = "enumeration"
	KindFileAccess      ErrorKind = "file_access"
	KindWrite           ErrorKind = "write"
)

// Root path rejections. The prompt re-asks on these; a path passed as argument fails with them.
var (
	ErrPathNotExist = errors.New("path does not exist")
	ErrNotDirectory = errors.New("path is not directory")
)

// InvalidRootPathError reports a root path rejected by validation
type InvalidRootPathError struct {
	Path string
	Err  error // ErrPathNotExist or ErrNotDirectory
}

func (e *InvalidRootPathError) Error() string {
	return fmt.Sprintf("invalid root path %q: %v", e.Path, e.Err)
}

func (e *InvalidRootPathError) Unwrap() error { return e.Err }

// EnumerationError reports a directory that could not be listed
type EnumerationError struct {
	Dir string
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to list directory %s: %v", e.Dir, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// FileAccessError reports a file that could not be stat'ed, opened or read
type FileAccessError struct {
	Path string
	Op   string // stat, open, read
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("failed to %s file %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// WriteError reports a report file that could not be created or written
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// NewWarning turns a skipped-item error into a warning
func NewWarning(err error) Warning {
	var (
		enumErr   *EnumerationError
		accessErr *FileAccessError
	)
	switch {
	case errors.As(err, &enumErr):
		return Warning{Kind: KindEnumeration, Path: enumErr.Dir, Message: enumErr.Err.Error()}
	case errors.As(err, &accessErr):
		return Warning{Kind: KindFileAccess, Path: accessErr.Path, Message: accessErr.Error()}
	default:
		return Warning{Message: err.Error()}
	}
}
