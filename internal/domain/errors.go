package domain

import "errors"

var (
	// ErrExportNotFound indicates the export file is missing before any scan starts.
	ErrExportNotFound = errors.New("health export not found")
	// ErrMalformedExport indicates a structural parse failure mid-scan. It is
	// fatal for the call; partially accumulated buckets are discarded.
	ErrMalformedExport = errors.New("health export is not well-formed XML")
)
